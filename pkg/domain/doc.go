/*
Package domain contains the core domain models of the Wayfinder transition engine.

It defines the read-only node view the engine scores, the per-request transition
context, the mode configuration that tunes a decision, and the decision itself.
This package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - NodeSnapshot: A read-only view of a content node (author, tags, embedding).
  - TransitionContext: Immutable per-request state (session, origin, route window, mode).
  - ModeConfig: A named bundle of tunables (providers, pool size, temperature, epsilon).
  - Provider: The closed set of candidate-generation strategies (compass, echo, random).
  - TransitionDecision: The ranked, probability-weighted list of next nodes.
*/
package domain
