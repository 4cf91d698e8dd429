package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"battle_chess_tft/internal/game"
	"battle_chess_tft/internal/game/consumables"
	"battle_chess_tft/internal/shared"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Simulate shop rotations and report offer frequencies",
	Long: `Generates shop rotations with the configured weights and prints how often
each offer kind and piece archetype appeared. Use --seed for a reproducible run.`,
	RunE: runShop,
}

func init() {
	shopCmd.Flags().Int("rotations", 1000, "number of shop rotations to generate")
	shopCmd.Flags().Uint64("seed", 1, "random seed for the simulation")
	shopCmd.Flags().Bool("quiet", false, "hide the progress bar")
	rootCmd.AddCommand(shopCmd)
}

// shopTally counts generated offers.
type shopTally struct {
	slots      int
	kinds      map[game.OfferKind]int
	archetypes map[shared.PieceType]int
	pieces     int
	// order lists the purchasable archetypes for printing.
	order []shared.PieceType
}

func (t *shopTally) add(slots []game.ShopSlot) {
	for _, s := range slots {
		t.slots++
		t.kinds[s.Kind]++
		if s.Kind == game.OfferPiece {
			t.pieces++
			t.archetypes[s.Archetype]++
		}
	}
}

func simulateShop(rules game.Rules, seed uint64, rotations int, progress func()) (*shopTally, error) {
	catalog, err := game.NewCatalog(rules.Pieces)
	if err != nil {
		return nil, err
	}
	gen := game.NewShopGenerator(rules.Shop, catalog, game.NewRand(seed), consumables.Kinds)
	tally := &shopTally{
		kinds:      make(map[game.OfferKind]int),
		archetypes: make(map[shared.PieceType]int),
		order:      catalog.Purchasable(),
	}
	for range rotations {
		tally.add(gen.Generate())
		if progress != nil {
			progress()
		}
	}
	return tally, nil
}

func runShop(cmd *cobra.Command, args []string) error {
	rotations, _ := cmd.Flags().GetInt("rotations")
	seed, _ := cmd.Flags().GetUint64("seed")
	quiet, _ := cmd.Flags().GetBool("quiet")
	if rotations <= 0 {
		return fmt.Errorf("--rotations must be positive, got %d", rotations)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rules, err := cfg.GameRules()
	if err != nil {
		return err
	}

	var progress func()
	if !quiet {
		bar := progressbar.NewOptions(rotations,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("rotations"),
			progressbar.OptionClearOnFinish(),
		)
		progress = func() { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	tally, err := simulateShop(rules, seed, rotations, progress)
	if err != nil {
		return err
	}
	return tally.print(cmd.OutOrStdout())
}

func (t *shopTally) print(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "offers\t%d\t\n", t.slots)
	for _, k := range []game.OfferKind{game.OfferPiece, game.OfferCard, game.OfferConsumable} {
		fmt.Fprintf(w, "%s\t%d\t%.3f\n", k, t.kinds[k], fraction(t.kinds[k], t.slots))
	}
	fmt.Fprintln(w, "\t\t")
	for _, pt := range t.order {
		n := t.archetypes[pt]
		fmt.Fprintf(w, "%s\t%d\t%.3f\n", pt, n, fraction(n, t.pieces))
	}
	return w.Flush()
}

func fraction(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
