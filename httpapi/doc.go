// Package httpapi serves the learnhub REST API with echo.
//
// Every route lives under /api/v1. Gated routes run the net/http guard from
// package middleware through echo.WrapMiddleware, so the same authentication
// path serves echo and plain net/http callers. Errors from the engine and
// the catalog are rendered by one HTTPErrorHandler as
// {"success": false, "message": ...}.
package httpapi
