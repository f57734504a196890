/*
Package ports defines the driven ports (interfaces) for the order desk.

These interfaces decouple the conversational core from external implementations,
allowing it to work with various catalogs, order books and session backends.

# Key Interfaces

  - DurableStore: the vehicle catalog (Inventory) and the order records (OrderBook).
  - SessionStore: Responsible for persisting and loading conversation Sessions.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.

RunSessionStoreContract and RunDurableStoreContract verify adapters against these contracts.
*/
package ports
