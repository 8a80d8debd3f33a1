/*
Package wayfinder is a navigation transition decision engine: given where a reader is
in a content graph and where they have been recently, it proposes a ranked, explained
set of next nodes.

Three candidate providers feed every decision. Compass ranks by embedding similarity
to a query vector blended from the origin and the route window. Echo follows the
origin's author and topics. Random samples broadly for exploration. The finalizer
merges their candidates, turns raw scores into probabilities with a temperature
softmax blended with an epsilon-uniform share, labels each candidate with a badge and
truncates to the slots the caller asked for.

# Concept

Nodes live behind a ports.NodePort (in memory, Loam files, or anything else). The
engine never fails on absent data: missing embeddings, unresolved route-window nodes
and failing providers degrade the decision, and an empty pool is reported with a
stable reason code instead of an error.

# Key Features

  - Deterministic Decisions: the same context, node data and RNG seed replay the same decision.
  - Hexagonal Architecture: scoring is decoupled from storage, transport and caching adapters.
  - Named Modes: an immutable registry of provider lists, pool sizes, temperatures and thresholds.
  - Idempotent Caching: decisions are keyed by the context cache seed, with an optional fill lock.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/wayfinder"
		"github.com/aretw0/wayfinder/pkg/adapters/memory"
		"github.com/aretw0/wayfinder/pkg/domain"
	)

	func main() {
		store := memory.NewNodeStore(
			domain.NodeSnapshot{ID: 1, AuthorID: "ana", Tags: []string{"go"}, IsPublic: true, Embedding: []float64{1, 0}},
			domain.NodeSnapshot{ID: 2, AuthorID: "ana", Tags: []string{"go"}, IsPublic: true, Embedding: []float64{0.8, 0.2}},
		)

		eng, err := wayfinder.New(store)
		if err != nil {
			log.Fatal(err)
		}

		origin := int64(1)
		tc := eng.NewContext(domain.ContextParams{SessionID: "session-123", OriginNodeID: &origin, RequestedUISlots: 3})
		decision, err := eng.Decide(context.Background(), tc)
		if err != nil {
			log.Fatal(err)
		}
		for _, c := range decision.Candidates {
			fmt.Println(c.NodeID, c.Badge, c.Explain)
		}
	}
*/
package wayfinder
