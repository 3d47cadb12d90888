// Package model defines the core data structures used throughout
// the pexels-search application.
//
// # Photo
//
// Photo is one search result from the photo API:
//
//	photo := model.Photo{ID: "1", PhotoURL: url, Photographer: "Joey Farina"}
//	fmt.Println(photo.DownloadURL()) // Original size if known
//
// # Grouping by photographer
//
// Aggregate turns a flat result list into a photographer → photo URLs
// mapping, keeping the input order inside each group:
//
//	groups := model.Aggregate(photos)
//	fmt.Println(groups["Joey Farina"])
//
// GroupByPhotographer returns the same data ordered by first appearance,
// for rendering and export.
package model
