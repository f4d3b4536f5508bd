// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the turnout map API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(registry)

# Endpoints

Health:

	GET /health
	GET /

Map data (read-only, shared by every viewer):

	GET /profile              - Active profile, periods, categories
	GET /legend               - Legend of the active scheme
	GET /boundaries           - Boundary GeoJSON with region ids
	GET /regions/{id}/compare - Stateless comparison for one region

Viewer sessions:

	POST   /sessions               - Start a selection
	GET    /sessions/{id}          - Current frame
	POST   /sessions/{id}/region   - Select or toggle a region
	POST   /sessions/{id}/category - Set a slot's category
	POST   /sessions/{id}/period   - Set a slot's period
	DELETE /sessions/{id}          - End the session

# Handler Initialization

The router creates handler instances from the session registry:

	mapHandler := handlers.NewMapHandler(registry.Scene())
	sessionHandler := handlers.NewSessionHandler(registry)

Every route except the health checks is wrapped in middleware.WithLogging.
*/
package router
