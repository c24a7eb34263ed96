// SPDX-License-Identifier: MPL-2.0

package project

import (
	"slices"

	"github.com/beevik/etree"
)

type (
	// Node is the minimal tree shape needed to walk a document.
	Node interface {
		Tag() string
		Children() []Node
	}

	elementNode struct {
		el *etree.Element
	}
)

// Walk visits root and all of its descendants in depth-first preorder.
// It keeps an explicit stack so that deeply nested documents cannot
// exhaust the goroutine stack.
func Walk(root Node, visit func(Node)) {
	if root == nil {
		return
	}
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)

		children := n.Children()
		for _, child := range slices.Backward(children) {
			stack = append(stack, child)
		}
	}
}

func (n elementNode) Tag() string { return n.el.Tag }

func (n elementNode) Children() []Node {
	elems := n.el.ChildElements()
	nodes := make([]Node, 0, len(elems))
	for _, e := range elems {
		nodes = append(nodes, elementNode{e})
	}
	return nodes
}
