// Package pools provides object pooling for reducing GC pressure.
//
// The component maintainer allocates several scratch sets per tick
// (visited nodes, claimed component identities, BFS queues). Pooling
// them keeps steady-state ticks allocation-free for small batches.
//
//   - SetPool: Pooling for entity sets
//   - SlicePool: Pooling for entity slices (BFS frontiers)
package pools
