// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the turnout map API.

# Handler Types

Each handler is a struct holding the state it serves:

  - MapHandler: read-only map data (profile, legend, boundaries, comparisons)
  - SessionHandler: per-viewer selections and their rendered frames

Handlers are created via constructor functions:

	mapHandler := handlers.NewMapHandler(scene)
	sessionHandler := handlers.NewSessionHandler(registry)

# Map Data

	GET /profile               → GetProfile (periods and categories for the selectors)
	GET /legend                → GetLegend
	GET /boundaries            → GetBoundaries (GeoJSON with region_id on every feature)
	GET /regions/{id}/compare  → CompareRegion

CompareRegion needs no session. Periods and categories come from the query
string and default to the profile's periods and "General".

# Sessions

A session is one viewer's selection. Every mutation redraws both maps and
the panel and returns the new frame:

	POST   /sessions               → CreateSession
	GET    /sessions/{id}          → GetSession
	POST   /sessions/{id}/region   → SelectRegion   {"region": "Marion"}
	POST   /sessions/{id}/category → SelectCategory {"slot": "current", "category": "Primary"}
	POST   /sessions/{id}/period   → SelectPeriod   {"slot": "previous", "period": "2018"}
	DELETE /sessions/{id}          → DeleteSession

Selecting the selected region again clears the selection and resets both
categories. An empty region does the same.

# Errors

  - 400: malformed JSON, unknown slot, period or category
  - 404: unknown session or region
  - 500: a redraw failed
*/
package handlers
