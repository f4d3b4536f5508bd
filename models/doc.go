// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - SelectRegionRequest: region
  - SelectCategoryRequest: slot, category
  - SelectPeriodRequest: slot, period

Slots are "current" or "previous".

# Response Types

Types for JSON responses:

  - SessionResponse: session_id, created_at, frame
  - ProfileResponse: active profile, periods, categories and dataset size
  - LegendResponse: scheme and ordered legend entries
  - ErrorResponse: error, message

Frames and panels are the render package's types, served as they are.
*/
package models
