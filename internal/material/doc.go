// Package material implements material setters, the strategies that decide
// which material a voxel receives, and pickers, which choose the setters a
// shape uses for its outer and inner voxels.
//
// Setter kinds:
//
//	single   material = "stone"                 every voxel gets one material
//	layered  outer = "brick", inner = "planks"  surface and filling differ; inner is optional
//	random   materials = "stone,cobblestone"    weighted draw per voxel, weights = "3,1"
//
// Every kind accepts replace = "air,water" to only overwrite the listed
// materials.
package material
