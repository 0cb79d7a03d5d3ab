// Package nodetree matches and trims node trees against patterns.
//
// A pattern is itself a tree. Null in a pattern matches anything, an
// object pattern matches any object holding at least its keys, and other
// nodes match structurally. See the ir package for the node model and
// gomap for mapping trees to and from Go values.
package nodetree
