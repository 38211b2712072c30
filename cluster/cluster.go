// Copyright 2025 Jurisnorm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package cluster groups similar field terms and picks a canonical form
// per group.
//
// The pipeline is: cap the vocabulary to the most frequent terms, link
// every pair at or above the similarity threshold into an undirected
// graph, take the connected components with more than one term, and
// inside each component elect the most frequent term as canonical.
package cluster

import (
	"sort"

	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/similarity"
)

// Graph is an undirected similarity graph over term indices.
type Graph struct {
	adjacency map[int][]int
	size      int
}

// Neighbors returns the terms linked to the term at index i.
func (g *Graph) Neighbors(i int) []int {
	return g.adjacency[i]
}

// EdgeCount returns the number of undirected edges in the graph.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, ns := range g.adjacency {
		total += len(ns)
	}
	return total / 2
}

// CapTerms returns at most limit terms ordered by descending frequency
// then ascending key. The input slice is not modified, so repeated runs
// over the same catalog always select the same candidate set.
func CapTerms(terms []core.Term, limit int) []core.Term {
	sorted := make([]core.Term, len(terms))
	copy(sorted, terms)
	sortTerms(sorted)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// BuildGraph links every pair of terms whose similarity is at or above
// threshold. Terms with identical keys are never linked; a catalog holds
// distinct keys, so an exact match would be the same term.
func BuildGraph(engine *similarity.Engine, terms []core.Term, threshold float64) *Graph {
	g := &Graph{
		adjacency: make(map[int][]int),
		size:      len(terms),
	}
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			if terms[i].Key == terms[j].Key {
				continue
			}
			if engine.Similarity(terms[i].Key, terms[j].Key) >= threshold {
				g.adjacency[i] = append(g.adjacency[i], j)
				g.adjacency[j] = append(g.adjacency[j], i)
			}
		}
	}
	return g
}

// FindClusters returns the connected components of the graph that contain
// more than one term. A term with no similar neighbor is regular
// vocabulary, not a cluster of one.
func FindClusters(g *Graph) [][]int {
	visited := make([]bool, g.size)
	var components [][]int

	for start := 0; start < g.size; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true

		component := []int{start}
		queue := []int{start}
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			for _, next := range g.Neighbors(node) {
				if visited[next] {
					continue
				}
				visited[next] = true
				component = append(component, next)
				queue = append(queue, next)
			}
		}

		if len(component) > 1 {
			components = append(components, component)
		}
	}
	return components
}

// SelectCanonicals turns graph components into clusters. Within each
// component the most frequent term becomes canonical, ties broken by
// ascending key; the rest become irregulars carrying their similarity
// to the canonical. An irregular that exactly ties the canonical's
// frequency is flagged as an alternative spelling rather than a typo.
func SelectCanonicals(engine *similarity.Engine, terms []core.Term, components [][]int) []core.Cluster {
	clusters := make([]core.Cluster, 0, len(components))
	for _, component := range components {
		members := make([]core.Term, 0, len(component))
		for _, idx := range component {
			members = append(members, terms[idx])
		}
		sortTerms(members)

		canonical := members[0]
		irregulars := make([]core.Irregularity, 0, len(members)-1)
		for _, member := range members[1:] {
			irregulars = append(irregulars, core.Irregularity{
				Term:          member,
				Similarity:    engine.Similarity(canonical.Key, member.Key),
				IsAlternative: member.Frequency == canonical.Frequency,
			})
		}

		clusters = append(clusters, core.Cluster{
			Canonical:  canonical,
			Irregulars: irregulars,
		})
	}
	return clusters
}

// SortClusters orders clusters by descending total frequency then
// ascending canonical key, so the most impactful merges surface first.
func SortClusters(clusters []core.Cluster) {
	sort.Slice(clusters, func(i, j int) bool {
		ti, tj := clusters[i].TotalFrequency(), clusters[j].TotalFrequency()
		if ti != tj {
			return ti > tj
		}
		return clusters[i].Canonical.Key < clusters[j].Canonical.Key
	})
}

// Analyze runs the full clustering pipeline over a term catalog.
func Analyze(engine *similarity.Engine, terms []core.Term, cfg Config) ([]core.Cluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	capped := CapTerms(terms, cfg.Cap)
	graph := BuildGraph(engine, capped, cfg.Threshold)
	components := FindClusters(graph)
	clusters := SelectCanonicals(engine, capped, components)
	SortClusters(clusters)
	return clusters, nil
}

// sortTerms orders terms by descending frequency then ascending key.
func sortTerms(terms []core.Term) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Frequency != terms[j].Frequency {
			return terms[i].Frequency > terms[j].Frequency
		}
		return terms[i].Key < terms[j].Key
	})
}
