// Package model defines the viewport's scene data: object identities,
// the tagged shape variant a primitive is built from, and the rigid
// placement (translation + rotation) each object carries.
package model
