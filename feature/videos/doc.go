// Package videos implements the video catalog: listing with filters and
// ordering, dual-key lookup, full and partial updates, and the two bulk
// endpoints.
//
// POST /videos creates every entry of {"videos": [...]}. POST
// /videos/update-and-create-bulk runs the entries through a
// reconcile.Reconciler backed by Store: entries whose video_id exists are
// partially updated, the rest are created, and each failure is reported
// next to its input. The response status follows the batch outcome:
//
//	created and updated, nothing failed    201
//	created only                           201
//	updated only                           200
//	some succeeded, some failed            206
//	everything failed                      400
//	empty batch                            200
//
// The same reconciliation backs catalog import from a file or a storage
// object, and ExportCatalog writes a snapshot that import accepts.
package videos
