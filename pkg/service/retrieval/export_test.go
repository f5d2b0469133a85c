package retrieval

// FuseRRF exposes the fusion step to tests.
var FuseRRF = fuseRRF
