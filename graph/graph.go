package graph

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

type Field struct {
	Name, Value string
}

type Child struct {
	Label string
	Node  *Node
}

// Node is a record in the rendered graph, with labelled edges to its children.
type Node struct {
	Name     string
	Fields   []Field
	Children []Child
}

func NewNode(name string) *Node {
	return &Node{
		Name: name,
	}
}

func (n *Node) AddField(name, value string) {
	n.Fields = append(n.Fields, Field{
		Name:  name,
		Value: value,
	})
}

func (n *Node) AddChild(label string, node *Node) {
	n.Children = append(n.Children, Child{
		Label: label,
		Node:  node,
	})
}

type Visualizer interface {
	Visualize() *Node
}

// Show lays out the tree rooted at node as a left-to-right directed graph.
func Show(node *Node) (*gographviz.Graph, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName("dtype"); err != nil {
		return nil, errors.Wrap(err, "couldn't set graph name")
	}
	if err := graph.SetDir(true); err != nil {
		return nil, errors.Wrap(err, "couldn't set graph direction")
	}
	if err := graph.AddAttr("dtype", "rankdir", "LR"); err != nil {
		return nil, errors.Wrap(err, "couldn't set graph rank direction")
	}

	builder := &graphBuilder{
		graph:        graph,
		nameCounters: make(map[string]int),
	}
	if _, err := builder.addNode(node); err != nil {
		return nil, err
	}

	return graph, nil
}

type graphBuilder struct {
	graph        *gographviz.Graph
	nameCounters map[string]int
}

func (gb *graphBuilder) getID(name string) string {
	count := gb.nameCounters[name]
	gb.nameCounters[name]++
	replacer := strings.NewReplacer(" ", "_", ",", "_", "(", "_", ")", "_", "\"", "_")
	return fmt.Sprintf("%s_%d", replacer.Replace(name), count)
}

func (gb *graphBuilder) addNode(node *Node) (string, error) {
	labelParts := []string{escapeRecord(node.Name)}
	for _, field := range node.Fields {
		labelParts = append(labelParts, fmt.Sprintf("%s: %s", escapeRecord(field.Name), escapeRecord(field.Value)))
	}

	id := gb.getID(node.Name)
	if err := gb.graph.AddNode("dtype", id, map[string]string{
		"shape": "record",
		"label": fmt.Sprintf("\"{%s}\"", strings.Join(labelParts, "|")),
	}); err != nil {
		return "", errors.Wrapf(err, "couldn't add node %s", id)
	}

	for _, child := range node.Children {
		childID, err := gb.addNode(child.Node)
		if err != nil {
			return "", err
		}
		if err := gb.graph.AddEdge(id, childID, true, map[string]string{
			"label": fmt.Sprintf("%q", child.Label),
		}); err != nil {
			return "", errors.Wrapf(err, "couldn't add edge %s -> %s", id, childID)
		}
	}
	return id, nil
}

var recordEscaper = strings.NewReplacer(
	"{", "\\{",
	"}", "\\}",
	"|", "\\|",
	"<", "\\<",
	">", "\\>",
	"\"", "\\\"",
)

func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}
