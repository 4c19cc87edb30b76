// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations, soft deletes, and sequence generation. The track
// cache repository additionally adapts itself to the resolution pipeline's
// cache interface so matched words skip repeat catalog lookups.
package repositories
