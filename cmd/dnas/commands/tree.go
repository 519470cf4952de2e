package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittonas/internal/cli/output"
	"github.com/marmos91/dittonas/internal/controlplane/api/links"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
	"github.com/marmos91/dittonas/pkg/storagetree"
)

var treeLinks bool

var treeCmd = &cobra.Command{
	Use:   "tree <volume>",
	Short: "Show the dataset and zvol tree of a volume",
	Long: `Render a volume's presentation tree from the control plane database,
with the same node ids the API returns.

Examples:
  # Indented table
  dnas tree tank

  # Full nodes with action links as JSON
  dnas tree tank -o json --links`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().BoolVar(&treeLinks, "links", false, "Include action links in json/yaml output")
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printer, err := newPrinter(cmd, output.FormatTable)
	if err != nil {
		return err
	}

	cpStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cpStore.Close() }()

	cfg.ControlPlane.ApplyDefaults()
	opts := []storagetree.Option{storagetree.WithStride(cfg.ControlPlane.Tree.IDStride)}
	if treeLinks {
		opts = append(opts, storagetree.WithLinks(links.New(cfg.ControlPlane.UIBaseURL)))
	}

	view, err := buildTree(cmd.Context(), cpStore, args[0], opts...)
	if err != nil {
		return err
	}
	return printer.Print(view)
}

// treeView is a volume with its projected nodes.
type treeView struct {
	Volume     string              `json:"volume" yaml:"volume"`
	Status     string              `json:"status" yaml:"status"`
	Mountpoint string              `json:"mountpoint" yaml:"mountpoint"`
	Used       string              `json:"used" yaml:"used"`
	Children   []*storagetree.Node `json:"children" yaml:"children"`
}

func buildTree(ctx context.Context, s store.StorageStore, name string, opts ...storagetree.Option) (*treeView, error) {
	vol, err := s.GetVolumeByName(ctx, name)
	if err != nil {
		return nil, err
	}
	datasets, err := s.ListDatasets(ctx, vol.ID)
	if err != nil {
		return nil, err
	}
	zvols, err := s.ListZVols(ctx, vol.ID)
	if err != nil {
		return nil, err
	}

	tv, err := vol.TreeVolume()
	if err != nil {
		return nil, fmt.Errorf("volume %q: %w", name, err)
	}
	nodes, err := vol.Project(datasets, zvols, opts...)
	if err != nil {
		return nil, fmt.Errorf("project volume %q: %w", name, err)
	}
	if nodes == nil {
		nodes = []*storagetree.Node{}
	}

	return &treeView{
		Volume:     vol.Name,
		Status:     vol.Status,
		Mountpoint: tv.MountPoint.Path,
		Used:       storagetree.VolumeUsed(tv),
		Children:   nodes,
	}, nil
}

// Headers implements output.TableRenderer.
func (v *treeView) Headers() []string {
	return []string{"ID", "NAME", "TYPE", "STATUS", "USED", "TOTAL"}
}

// Rows implements output.TableRenderer. The volume is the first row and
// nodes are indented by depth.
func (v *treeView) Rows() [][]string {
	rows := [][]string{{"", v.Volume, "volume", v.Status, v.Used, ""}}
	var walk func(nodes []*storagetree.Node, depth int)
	walk = func(nodes []*storagetree.Node, depth int) {
		for _, n := range nodes {
			rows = append(rows, []string{
				strconv.Itoa(n.ID),
				strings.Repeat("  ", depth) + n.Name,
				string(n.Type),
				n.Status,
				n.Used,
				n.TotalSI,
			})
			walk(n.Children, depth+1)
		}
	}
	walk(v.Children, 1)
	return rows
}

var _ output.TableRenderer = (*treeView)(nil)
