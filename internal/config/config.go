// Package config loads layered settings: built-in defaults, an optional YAML
// file and BCHESS_ environment variables, in increasing priority.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"battle_chess_tft/internal/game"
	"battle_chess_tft/internal/shared"
)

const EnvPrefix = "BCHESS"

type Config struct {
	Server  ServerConfig           `mapstructure:"server" yaml:"server"`
	Log     LogConfig              `mapstructure:"log" yaml:"log"`
	Economy EconomyConfig          `mapstructure:"economy" yaml:"economy"`
	Shop    ShopConfig             `mapstructure:"shop" yaml:"shop"`
	Rules   RulesConfig            `mapstructure:"rules" yaml:"rules"`
	Pieces  map[string]PieceConfig `mapstructure:"pieces" yaml:"pieces"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

type EconomyConfig struct {
	StartingCoins    int    `mapstructure:"starting_coins" yaml:"starting_coins"`
	RoundIncome      int    `mapstructure:"round_income" yaml:"round_income"`
	VictoryBonus     int    `mapstructure:"victory_bonus" yaml:"victory_bonus"`
	KillReward       string `mapstructure:"kill_reward" yaml:"kill_reward"`
	KillRewardAmount int    `mapstructure:"kill_reward_amount" yaml:"kill_reward_amount"`
	VolleyKillReward bool   `mapstructure:"volley_kill_reward" yaml:"volley_kill_reward"`
}

type ShopConfig struct {
	Slots            int            `mapstructure:"slots" yaml:"slots"`
	Every            int            `mapstructure:"every" yaml:"every"`
	PieceWeight      int            `mapstructure:"piece_weight" yaml:"piece_weight"`
	CardWeight       int            `mapstructure:"card_weight" yaml:"card_weight"`
	ConsumableWeight int            `mapstructure:"consumable_weight" yaml:"consumable_weight"`
	CardCost         int            `mapstructure:"card_cost" yaml:"card_cost"`
	ArchetypeWeights map[string]int `mapstructure:"archetype_weights" yaml:"archetype_weights"`
	// Seed fixes the shop stream; zero picks a random seed.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
}

type RulesConfig struct {
	// PawnAttack is "forward" (attack equals move) or "diagonal".
	PawnAttack  string `mapstructure:"pawn_attack" yaml:"pawn_attack"`
	DeployRanks int    `mapstructure:"deploy_ranks" yaml:"deploy_ranks"`
}

type PieceConfig struct {
	HP     int `mapstructure:"hp" yaml:"hp"`
	Attack int `mapstructure:"attack" yaml:"attack"`
	Cost   int `mapstructure:"cost" yaml:"cost"`
}

// Default mirrors game.DefaultRules.
func Default() Config {
	rules := game.DefaultRules()
	pieces := make(map[string]PieceConfig, len(rules.Pieces))
	for i, s := range rules.Pieces {
		pieces[shared.PieceType(i).String()] = PieceConfig{HP: s.HP, Attack: s.Attack, Cost: s.Cost}
	}
	weights := make(map[string]int)
	for i, w := range rules.Shop.ArchetypeWeights {
		if w > 0 {
			weights[shared.PieceType(i).String()] = w
		}
	}
	return Config{
		Server: ServerConfig{Addr: ":8080", MaxBodyBytes: 1 << 20},
		Log:    LogConfig{Level: "info"},
		Economy: EconomyConfig{
			StartingCoins:    rules.Economy.StartingCoins,
			RoundIncome:      rules.Economy.RoundIncome,
			VictoryBonus:     rules.Economy.VictoryBonus,
			KillReward:       rules.Economy.KillReward.String(),
			KillRewardAmount: rules.Economy.KillRewardAmount,
			VolleyKillReward: rules.Economy.VolleyKillReward,
		},
		Shop: ShopConfig{
			Slots:            rules.Shop.Slots,
			Every:            rules.Shop.Every,
			PieceWeight:      rules.Shop.PieceWeight,
			CardWeight:       rules.Shop.CardWeight,
			ConsumableWeight: rules.Shop.ConsumableWeight,
			CardCost:         rules.Shop.CardCost,
			ArchetypeWeights: weights,
		},
		Rules:  RulesConfig{PawnAttack: "forward", DeployRanks: rules.DeployRanks},
		Pieces: pieces,
	}
}

// Load reads path (optional) over the defaults and applies environment
// overrides such as BCHESS_SERVER_ADDR or BCHESS_SHOP_SEED.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return Config{}, fmt.Errorf("config: encode defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := c.GameRules(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// GameRules converts the game sections into engine rules.
func (c Config) GameRules() (game.Rules, error) {
	rules := game.DefaultRules()
	var errs []error

	for name, pc := range c.Pieces {
		pt, ok := shared.ParsePieceType(name)
		if !ok {
			errs = append(errs, fmt.Errorf("pieces: unknown archetype %q", name))
			continue
		}
		rules.Pieces[pt].HP = pc.HP
		rules.Pieces[pt].Attack = pc.Attack
		rules.Pieces[pt].Cost = pc.Cost
	}
	switch strings.ToLower(c.Rules.PawnAttack) {
	case "", "forward":
		rules.Pieces[shared.Pawn].AttackRule = game.RuleForwardStep
	case "diagonal":
		rules.Pieces[shared.Pawn].AttackRule = game.RuleForwardDiagonal
	default:
		errs = append(errs, fmt.Errorf("rules.pawn_attack: unknown value %q", c.Rules.PawnAttack))
	}
	rules.DeployRanks = c.Rules.DeployRanks

	mode, ok := game.ParseRewardMode(c.Economy.KillReward)
	if !ok {
		errs = append(errs, fmt.Errorf("economy.kill_reward: unknown policy %q", c.Economy.KillReward))
	}
	rules.Economy = game.EconomyRules{
		StartingCoins:    c.Economy.StartingCoins,
		RoundIncome:      c.Economy.RoundIncome,
		VictoryBonus:     c.Economy.VictoryBonus,
		KillReward:       mode,
		KillRewardAmount: c.Economy.KillRewardAmount,
		VolleyKillReward: c.Economy.VolleyKillReward,
	}

	rules.Shop = game.ShopRules{
		Slots:            c.Shop.Slots,
		Every:            c.Shop.Every,
		PieceWeight:      c.Shop.PieceWeight,
		CardWeight:       c.Shop.CardWeight,
		ConsumableWeight: c.Shop.ConsumableWeight,
		CardCost:         c.Shop.CardCost,
	}
	for name, w := range c.Shop.ArchetypeWeights {
		pt, ok := shared.ParsePieceType(name)
		if !ok {
			errs = append(errs, fmt.Errorf("shop.archetype_weights: unknown archetype %q", name))
			continue
		}
		rules.Shop.ArchetypeWeights[pt] = w
	}

	if err := errors.Join(errs...); err != nil {
		return game.Rules{}, err
	}
	if err := rules.Validate(); err != nil {
		return game.Rules{}, err
	}
	return rules, nil
}

// YAML renders the effective configuration.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
