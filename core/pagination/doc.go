// Package pagination implements limit/offset pagination for list endpoints.
//
// Lists are returned in an envelope with the total count, links to the next and
// previous pages and the page results:
//
//	{"count": 120, "next": "http://host/videos?limit=50&offset=50", "previous": null, "results": [...]}
package pagination
