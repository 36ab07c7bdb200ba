// ABOUTME: Graphviz generation for the sales pipeline and single-client histories
// ABOUTME: Produces DOT source from a store snapshot
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/salescrm/models"
)

// Source supplies a consistent view of the CRM records.
type Source interface {
	Snapshot() models.Dataset
}

type GraphGenerator struct {
	src Source
}

func NewGraphGenerator(src Source) *GraphGenerator {
	return &GraphGenerator{src: src}
}

var segmentColors = map[models.Segment]string{
	models.SegmentA: "palegreen",
	models.SegmentB: "lightblue",
	models.SegmentC: "lightyellow",
}

// GeneratePipelineGraph draws the stage chain left to right with every client
// hanging off its current stage, colored by segment.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context) (string, error) {
	ds := g.src.Snapshot()

	return render(ctx, "Sales pipeline", func(graph *cgraph.Graph) error {
		stageNodes := make(map[models.Stage]*cgraph.Node, len(models.Stages))
		var prev *cgraph.Node
		for _, st := range models.Stages {
			node, err := graph.CreateNodeByName("stage_" + string(st))
			if err != nil {
				return fmt.Errorf("failed to create stage node: %w", err)
			}
			node.SetLabel(string(st))
			node.SetShape("box")
			node.SetStyle("filled")
			node.SetFillColor("gray90")
			stageNodes[st] = node

			if prev != nil {
				edge, err := graph.CreateEdgeByName("next_"+string(st), prev, node)
				if err != nil {
					return fmt.Errorf("failed to create stage edge: %w", err)
				}
				edge.SetStyle("bold")
			}
			prev = node
		}

		for _, c := range ds.Clients {
			stageNode, ok := stageNodes[c.OpportunityStatus]
			if !ok {
				continue
			}
			node, err := graph.CreateNodeByName("client_" + c.ID)
			if err != nil {
				return fmt.Errorf("failed to create client node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%s (%s)", c.CompanyName, c.PotentialValue.StringFixed(0), c.Segment))
			node.SetShape("ellipse")
			node.SetStyle("filled")
			node.SetFillColor(segmentColors[c.Segment])

			edge, err := graph.CreateEdgeByName("at_"+c.ID, stageNode, node)
			if err != nil {
				return fmt.Errorf("failed to create client edge: %w", err)
			}
			edge.SetStyle("dashed")
			edge.SetDir("none")
		}
		return nil
	})
}

// GenerateClientGraph draws one client with its activities as a timeline.
func (g *GraphGenerator) GenerateClientGraph(ctx context.Context, clientID string) (string, error) {
	ds := g.src.Snapshot()

	var client *models.Client
	for i := range ds.Clients {
		if ds.Clients[i].ID == clientID {
			client = &ds.Clients[i]
			break
		}
	}
	if client == nil {
		return "", fmt.Errorf("client %s not found", clientID)
	}

	return render(ctx, client.CompanyName, func(graph *cgraph.Graph) error {
		root, err := graph.CreateNodeByName("client_" + client.ID)
		if err != nil {
			return fmt.Errorf("failed to create client node: %w", err)
		}
		root.SetLabel(fmt.Sprintf("%s\n%s", client.CompanyName, client.OpportunityStatus))
		root.SetShape("box")
		root.SetStyle("filled")
		root.SetFillColor(segmentColors[client.Segment])

		for _, a := range ds.Activities {
			if a.ClientID != client.ID {
				continue
			}
			node, err := graph.CreateNodeByName("activity_" + a.ID)
			if err != nil {
				return fmt.Errorf("failed to create activity node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%s\n%s", a.Type, a.Title, a.ScheduledAt.Format("02.01.2006")))
			node.SetShape("note")
			if a.Result == models.ResultWon {
				node.SetStyle("filled")
				node.SetFillColor("palegreen")
			}

			edge, err := graph.CreateEdgeByName("has_"+a.ID, root, node)
			if err != nil {
				return fmt.Errorf("failed to create activity edge: %w", err)
			}
			edge.SetLabel(string(a.Status))
		}
		return nil
	})
}

func render(ctx context.Context, label string, build func(*cgraph.Graph) error) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel(label)
	graph.SetRankDir(cgraph.LRRank)

	if err := build(graph); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
