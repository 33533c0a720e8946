// Package server exposes presets and editable texture graphs over HTTP.
//
// # Endpoints
//
//	GET    /healthz
//	GET    /presets
//	GET    /render/{preset}?width&height&format&seed&noise_scale&scale
//	POST   /sessions                          {"preset", "seed", "noise_scale"}
//	GET    /sessions/{id}
//	DELETE /sessions/{id}
//	GET    /sessions/{id}/graph?format=dot|svg&detailed=true
//	POST   /sessions/{id}/nodes               node definition, optional "name"
//	PUT    /sessions/{id}/nodes/{node}        node definition
//	POST   /sessions/{id}/nodes/{node}/move   {"x", "y"}
//	POST   /sessions/{id}/links               {"from", "to", "name"}
//	DELETE /sessions/{id}/links/{link}
//	GET    /sessions/{id}/render?width&height&format&scale
//
// A session owns one generator. Preset renders go through the pipeline cache;
// session renders never do since their graphs change.
//
// # Errors
//
// Failures are written as {"code": "...", "message": "..."}. Graph
// configuration errors are 422, other invalid input is 400, unknown sessions
// are 404 and generation timeouts are 504.
package server
