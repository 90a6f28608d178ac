// Package reshard computes the sequence of collective operations needed to
// reshard a tensor from one sharding over a device mesh to another.
//
// A Sharding (package sharding) assigns mesh axes (package axis, over a
// mesh.Mesh) to tensor dimensions. Given an input and an output Sharding,
// package planner synthesizes a Chain (package collective) of at most one
// all-slice, one collective-permute, zero or more all-to-alls, and one
// all-gather — in that order — that transforms the tensor's actual layout
// from the input sharding to the output sharding, following the same greedy
// strategy order as the compiler pass this module reimplements.
//
// Package meshcfg loads a mesh and a sharding pair from a YAML file;
// cmd/reshardplan is a small demo driver over it.
package reshard
