// Package recommend implements the recipe scoring and diversification engine.
//
// Two independent modes turn a query and a recipe catalog into a ranked,
// deduplicated and explainable result set:
//
//   - Goal mode expands a free-text dietary goal into nutritional targets,
//     embeds it together with every recipe's composite text and ranks the
//     catalog by cosine similarity.
//   - Inventory mode scores recipes against a pantry by ingredient coverage
//     and expiration urgency, dropping recipes the pantry does not touch.
//
// Both modes hand their candidates to Diversify, which clusters candidate
// embeddings with a seeded k-means and keeps the best recipe per cluster.
//
// External collaborators (catalog, embedding model, language model) are
// reached only through the interfaces in types.go and are injected via
// Services, so the scoring functions themselves stay pure.
package recommend
