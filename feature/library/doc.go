// Package library holds per-user state: saved videos and curated video
// lists.
//
// Every route requires an authenticated user and only ever sees that
// user's rows; another user's list answers 404, not 403. Lists are
// addressed by their generated list_id. A list thumbnail is stored in the
// bucket under thumbnails/lists/<list_id> and removed with the list.
package library
