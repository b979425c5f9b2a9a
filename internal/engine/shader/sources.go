package shader

import _ "embed"

// Embedded GLSL sources for the two render passes. The depth pass
// renders the scene from the light's point of view into the shadow
// map; the model pass does the lit, shadowed forward render.

//go:embed glsl/depth.vert
var DepthVertexSrc string

//go:embed glsl/depth.frag
var DepthFragmentSrc string

//go:embed glsl/model.vert
var ModelVertexSrc string

//go:embed glsl/model.frag
var ModelFragmentSrc string
