/*
Package ports defines the driven ports (interfaces) for the Wayfinder engine.

These interfaces decouple the decision core from external implementations, allowing
the engine to work with various node stores, decision caches and random sources.

# Key Interfaces

  - NodePort: Supplies node snapshots (by ID, by author, by embedding similarity).
  - DecisionCache: Stores finished decisions under their context cache seed.
  - DistributedLocker: Coordinates cache fills across replicas.
  - Rand: The swappable random source used for exploration sampling.
*/
package ports
