package model

// PhotographerGroup holds every photo URL of one photographer within a
// result set.
//
// Groups are derived data: they are recomputed from the current result
// set on each call and have no identity across searches.
type PhotographerGroup struct {
	// Name is the photographer's display name, unique within one grouping.
	Name string

	// PhotoURLs lists the photographer's photos in the order they appeared
	// in the source results.
	PhotoURLs []string
}

// Aggregate groups photos by photographer.
//
// The result maps each photographer name to that photographer's photo
// URLs. Photos are visited once, in order: the first photo of a
// photographer creates the entry and later photos are appended, so each
// list keeps the relative order of the input.
//
// No validation is performed. Empty names or URLs are grouped under the
// literal value. The input slice is not modified and the returned slices
// do not share memory with it.
//
// Example:
//
//	groups := Aggregate([]Photo{
//	    {Photographer: "A", PhotoURL: "u1"},
//	    {Photographer: "B", PhotoURL: "u2"},
//	    {Photographer: "A", PhotoURL: "u3"},
//	})
//	// groups = map[string][]string{"A": {"u1", "u3"}, "B": {"u2"}}
func Aggregate(photos []Photo) map[string][]string {
	groups := make(map[string][]string)
	for _, photo := range photos {
		groups[photo.Photographer] = append(groups[photo.Photographer], photo.PhotoURL)
	}
	return groups
}

// GroupByPhotographer returns the same grouping as Aggregate as a slice
// ordered by each photographer's first appearance in photos.
//
// Go maps have no iteration order, so callers that render or export the
// grouping use this form to get stable output.
func GroupByPhotographer(photos []Photo) []PhotographerGroup {
	index := make(map[string]int)
	var groups []PhotographerGroup

	for _, photo := range photos {
		i, ok := index[photo.Photographer]
		if !ok {
			i = len(groups)
			index[photo.Photographer] = i
			groups = append(groups, PhotographerGroup{Name: photo.Photographer})
		}
		groups[i].PhotoURLs = append(groups[i].PhotoURLs, photo.PhotoURL)
	}

	return groups
}

// PhotosBy returns the photos taken by the named photographer, in order.
func PhotosBy(photos []Photo, photographer string) []Photo {
	var out []Photo
	for _, photo := range photos {
		if photo.Photographer == photographer {
			out = append(out, photo)
		}
	}
	return out
}
