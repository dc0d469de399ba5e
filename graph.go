package rbm

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

func visibleID(j int) string { return fmt.Sprintf("v%d", j) }
func hiddenID(i int) string  { return fmt.Sprintf("h%d", i) }

// ToDot returns the RBM as a bipartite graph in the dot language. Each edge is labelled with its weight.
func (m *RBM) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("RBM"); err != nil {
		panic(err)
	}
	g.SetDir(false)
	g.AddAttr("RBM", "rankdir", "BT")

	g.AddSubGraph("RBM", "cluster_visible", map[string]string{"label": "visible", "rank": "same"})
	g.AddSubGraph("RBM", "cluster_hidden", map[string]string{"label": "hidden", "rank": "same"})

	for j := 0; j < m.Inputs; j++ {
		g.AddNode("cluster_visible", visibleID(j), map[string]string{
			"shape": "circle",
			"label": fmt.Sprintf("%q", fmt.Sprintf("v%d\n%.3f", j, m.biasIn[j])),
		})
	}
	for i := 0; i < m.Outputs; i++ {
		g.AddNode("cluster_hidden", hiddenID(i), map[string]string{
			"shape": "doublecircle",
			"label": fmt.Sprintf("%q", fmt.Sprintf("h%d\n%.3f", i, m.biasOut[i])),
		})
	}
	for i, row := range m.w {
		for j, wij := range row {
			g.AddEdge(visibleID(j), hiddenID(i), false, map[string]string{
				"label": fmt.Sprintf("%q", fmt.Sprintf("%.3f", wij)),
			})
		}
	}
	return g.String()
}
