// Package pexels implements the photo search collaborator on top of the
// Pexels REST API (https://www.pexels.com/api/documentation/).
//
// Only the first page of results is requested. The JSON payload is
// decoded into the types of package dto and converted to model.Photo:
//
//	client := pexels.NewClient(pexels.Config{APIKey: key}, logger)
//	photos, err := client.Search(ctx, "cats")
//
// Failures are reported as ErrMissingAPIKey, *APIError for non-200
// responses, or the transport error itself.
package pexels
