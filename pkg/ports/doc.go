/*
Package ports defines the driven ports (interfaces) for the tinysplit services.

These interfaces decouple session persistence from concrete backends, so the
session manager and the servers work the same over memory, files or Redis.

# Key Interfaces

  - SnapshotStore: Responsible for persisting and loading session snapshots.
  - DistributedLocker: Provides distributed locking for concurrent access to a session.
*/
package ports
