package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineInitialLayout(t *testing.T) {
	eng := newTestEngine(t)
	st := eng.State()

	assert.Equal(t, PhaseSetup, st.Phase)
	assert.Equal(t, 1, st.Round)
	assert.Len(t, st.Pieces, 10)
	for _, pl := range st.Players {
		assert.Equal(t, 3, pl.Coins)
	}

	king, ok := eng.PieceAt(MustSquare("c1"))
	require.True(t, ok)
	assert.Equal(t, King, king.Type)
	assert.Equal(t, White, king.Owner)
	king, ok = eng.PieceAt(MustSquare("f8"))
	require.True(t, ok)
	assert.Equal(t, Black, king.Owner)
	for _, c := range []string{"e7", "f7", "g7", "h7"} {
		p, ok := eng.PieceAt(MustSquare(c))
		require.True(t, ok, c)
		assert.Equal(t, Pawn, p.Type)
	}
}

func TestNewEngineRejectsInvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.Economy.StartingCoins = -1
	_, err := NewEngine(WithRules(rules))
	assert.Error(t, err)
}

func TestNextRoundPaysIncome(t *testing.T) {
	eng := newTestEngine(t)
	require.Equal(t, 3, eng.Coins(White))
	require.Equal(t, 3, eng.Coins(Black))

	require.NoError(t, eng.NextRound())
	assert.Equal(t, 4, eng.Coins(White))
	assert.Equal(t, 4, eng.Coins(Black))
	assert.Equal(t, 2, eng.Round())
	active, mode, ok := eng.Phase().Battle()
	require.True(t, ok)
	assert.Equal(t, White, active)
	assert.Equal(t, ModeMove, mode)
}

func TestKingKillEndsGameWithRewardAndBonus(t *testing.T) {
	eng := newTestEngine(t)
	battleOn(t, eng, ModeAttack)
	put(t, eng.board, White, King, "a1")
	put(t, eng.board, White, Queen, "e1")
	king := put(t, eng.board, Black, King, "e8")
	king.HP = 5

	res, err := eng.Attack(MustSquare("e1"), MustSquare("e8"))
	require.NoError(t, err)
	assert.True(t, res.KingSlain)
	assert.Equal(t, 3+1+3, eng.Coins(White))
	assert.Equal(t, 3, eng.Coins(Black))

	winner, ok := eng.Phase().Winner()
	require.True(t, ok)
	assert.Equal(t, White, winner)

	assert.ErrorIs(t, eng.NextRound(), ErrWrongPhase)
	_, err = eng.Attack(MustSquare("e1"), MustSquare("e2"))
	assert.ErrorIs(t, err, ErrWrongPhase)

	var kinds []EventKind
	for _, ev := range eng.Events(0) {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, EventPieceKilled)
	assert.Contains(t, kinds, EventGameOver)
}

func TestVolleyKingKillEndsGame(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.CompleteSetup())
	king, _ := eng.board.KingOf(Black)
	king.HP = 1
	stockShop(eng, White, cardSlot(CardArrowVolley))

	_, err := eng.Buy(White, 0)
	require.NoError(t, err)
	winner, ok := eng.Phase().Winner()
	require.True(t, ok)
	assert.Equal(t, White, winner)
	assert.Equal(t, 3, eng.Coins(White), "volley kill pays no reward; victory bonus does")
}

func TestVolleyKillRewardPolicy(t *testing.T) {
	rules := DefaultRules()
	rules.Economy.VolleyKillReward = true
	eng := newTestEngine(t, WithRules(rules))
	require.NoError(t, eng.CompleteSetup())
	for p := range eng.board.PiecesOf(Black) {
		if p.Type == Pawn {
			p.HP = 1
		}
	}
	stockShop(eng, White, cardSlot(CardArrowVolley))

	_, err := eng.Buy(White, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, eng.Coins(White), "four pawns at one coin each")
	assert.Equal(t, 1, eng.board.Count(Black))
}

func TestResetAfterGameOver(t *testing.T) {
	eng := newTestEngine(t)
	battleOn(t, eng, ModeAttack)
	put(t, eng.board, White, Queen, "d1")
	king := put(t, eng.board, Black, King, "d2")
	king.HP = 1
	_, err := eng.Attack(MustSquare("d1"), MustSquare("d2"))
	require.NoError(t, err)
	require.True(t, eng.Phase().Is(PhaseGameOver))

	require.NoError(t, eng.Reset())
	st := eng.State()
	assert.Equal(t, PhaseSetup, st.Phase)
	assert.Equal(t, 1, st.Round)
	assert.Len(t, st.Pieces, 10)
	assert.Equal(t, 3, eng.Coins(White))
	assert.Equal(t, 3, eng.Coins(Black))
	assert.Nil(t, st.Winner)

	events := eng.Events(0)
	assert.Equal(t, EventReset, events[len(events)-1].Kind)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Seq, events[i-1].Seq)
	}
}

func TestMoveAndAttackRequireTheirMode(t *testing.T) {
	eng := newTestEngine(t)
	require.ErrorIs(t, eng.ToggleMode(), ErrWrongPhase)
	require.NoError(t, eng.NextRound())

	_, err := eng.Attack(MustSquare("b2"), MustSquare("b3"))
	assert.ErrorIs(t, err, ErrWrongPhase)

	require.NoError(t, eng.ToggleMode())
	mode, _ := eng.Phase().Mode()
	assert.Equal(t, ModeAttack, mode)
	assert.ErrorIs(t, eng.Move(MustSquare("b2"), MustSquare("b3")), ErrWrongPhase)

	require.NoError(t, eng.SetMode(ModeMove))
	require.NoError(t, eng.Move(MustSquare("b2"), MustSquare("b3")))
	active, mode, _ := eng.Phase().Battle()
	assert.Equal(t, Black, active)
	assert.Equal(t, ModeMove, mode)
}

func TestRejectedCommandChangesNothing(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.NextRound())
	before := eng.State()

	assert.ErrorIs(t, eng.Move(MustSquare("c2"), MustSquare("c4")), ErrInvalidDestination)
	assert.ErrorIs(t, eng.Move(MustSquare("e7"), MustSquare("e6")), ErrNotYourTurn)
	assert.ErrorIs(t, eng.Move(MustSquare("a5"), MustSquare("a6")), ErrEmptySquare)
	assert.ErrorIs(t, eng.Move(MustSquare("c1"), MustSquare("c2")), ErrOccupiedSquare)
	assert.ErrorIs(t, eng.Move(MustSquare("c1"), Square(64)), ErrOutOfBounds)
	_, err := eng.Buy(White, 0)
	assert.ErrorIs(t, err, ErrWrongPhase)

	assert.Equal(t, before, eng.State())
}

func TestSelectAndDestinations(t *testing.T) {
	eng := newTestEngine(t)
	_, err := eng.Select(MustSquare("c1"))
	assert.ErrorIs(t, err, ErrWrongPhase)
	require.NoError(t, eng.NextRound())

	_, err = eng.Select(MustSquare("f8"))
	assert.ErrorIs(t, err, ErrNotYourTurn)
	_, err = eng.Select(MustSquare("d4"))
	assert.ErrorIs(t, err, ErrEmptySquare)

	p, err := eng.Select(MustSquare("c1"))
	require.NoError(t, err)
	assert.Equal(t, King, p.Type)

	dests, err := eng.SelectedDestinations()
	require.NoError(t, err)
	assert.ElementsMatch(t, []Square{MustSquare("b1"), MustSquare("d1")}, dests)

	require.NotNil(t, eng.State().Selected)
	require.NoError(t, eng.Move(MustSquare("c1"), MustSquare("d1")))
	assert.Nil(t, eng.State().Selected)
}

func TestDeployZones(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.CompleteSetup())
	stockShop(eng, White, ShopSlot{Kind: OfferPiece, Archetype: Knight, Cost: 3})
	stockShop(eng, Black, ShopSlot{Kind: OfferPiece, Archetype: Pawn, Cost: 1})

	_, err := eng.Buy(White, 0)
	require.NoError(t, err)
	_, err = eng.Buy(White, 0)
	assert.ErrorIs(t, err, ErrInvalidSlot, "slot already purchased")
	_, err = eng.Buy(Black, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, eng.Coins(White))
	assert.Equal(t, 2, eng.Coins(Black))

	assert.ErrorIs(t, eng.Deploy(White, 0, MustSquare("e5")), ErrInvalidDestination)
	assert.ErrorIs(t, eng.Deploy(White, 0, MustSquare("c1")), ErrOccupiedSquare)
	assert.ErrorIs(t, eng.Deploy(White, 3, MustSquare("a1")), ErrInvalidSlot)
	assert.ErrorIs(t, eng.Deploy(Black, 0, MustSquare("a2")), ErrInvalidDestination)

	require.NoError(t, eng.Deploy(White, 0, MustSquare("a1")))
	require.NoError(t, eng.Deploy(Black, 0, MustSquare("a7")))
	p, ok := eng.PieceAt(MustSquare("a1"))
	require.True(t, ok)
	assert.Equal(t, Knight, p.Type)
	assert.Empty(t, eng.State().Players[White].Reserve)

	require.NoError(t, eng.EndShop())
	assert.ErrorIs(t, eng.Deploy(White, 0, MustSquare("b1")), ErrWrongPhase)
}

func TestDeployZonesSpanThreeHomeRanks(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.CompleteSetup())
	stockShop(eng, White, ShopSlot{Kind: OfferPiece, Archetype: Pawn, Cost: 1})
	stockShop(eng, Black, ShopSlot{Kind: OfferPiece, Archetype: Pawn, Cost: 1})
	_, err := eng.Buy(White, 0)
	require.NoError(t, err)
	_, err = eng.Buy(Black, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, eng.Deploy(White, 0, MustSquare("a4")), ErrInvalidDestination)
	assert.ErrorIs(t, eng.Deploy(Black, 0, MustSquare("a5")), ErrInvalidDestination)

	require.NoError(t, eng.Deploy(White, 0, MustSquare("a3")))
	require.NoError(t, eng.Deploy(Black, 0, MustSquare("a6")))
	p, ok := eng.PieceAt(MustSquare("a3"))
	require.True(t, ok)
	assert.Equal(t, White, p.Owner)
	p, ok = eng.PieceAt(MustSquare("a6"))
	require.True(t, ok)
	assert.Equal(t, Black, p.Owner)
}

func TestBuyInsufficientFunds(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.CompleteSetup())
	stockShop(eng, White, ShopSlot{Kind: OfferPiece, Archetype: Queen, Cost: 9})

	_, err := eng.Buy(White, 0)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 3, eng.Coins(White))
	assert.False(t, eng.State().Players[White].Shop[0].Purchased)
	_, err = eng.Buy(White, 5)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestCompleteSetupOffShopRoundGoesToBattle(t *testing.T) {
	rules := DefaultRules()
	rules.Shop.Every = 2
	eng := newTestEngine(t, WithRules(rules))
	eng.round = 2
	require.NoError(t, eng.CompleteSetup())
	assert.True(t, eng.Phase().Is(PhaseBattle))
	assert.ErrorIs(t, eng.CompleteSetup(), ErrWrongPhase)
}

func TestEventsSince(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.NextRound())
	mark := eng.LastEventSeq()
	require.NoError(t, eng.Move(MustSquare("b2"), MustSquare("b3")))

	fresh := eng.Events(mark)
	require.NotEmpty(t, fresh)
	assert.Equal(t, EventMoved, fresh[0].Kind)
	assert.Equal(t, MustSquare("b2"), *fresh[0].From)
	assert.Equal(t, 2, fresh[0].Round)
	assert.Empty(t, eng.Events(eng.LastEventSeq()))
}

func TestEventLogRetention(t *testing.T) {
	eng := newTestEngine(t, WithEventRetention(3))
	for i := 0; i < 5; i++ {
		require.NoError(t, eng.Reset())
	}
	events := eng.Events(0)
	require.Len(t, events, 3)
	assert.Equal(t, eng.LastEventSeq(), events[2].Seq)
}

func TestErrorKinds(t *testing.T) {
	eng := newTestEngine(t)
	err := eng.Move(MustSquare("c1"), MustSquare("c2"))
	assert.Equal(t, "WrongPhase", KindOf(err))
	assert.Equal(t, "NoTarget", KindOf(ErrNoTarget))
	assert.Equal(t, "EmptySquare", KindOf(ErrEmptySquare))
	assert.Equal(t, "", KindOf(nil))

	battleOn(t, eng, ModeAttack)
	put(t, eng.board, White, Rook, "a1")
	_, err = eng.Attack(MustSquare("a1"), MustSquare("a5"))
	assert.ErrorIs(t, err, ErrEmptySquare)
	assert.Equal(t, "NoTarget", KindOf(err))
}

func TestAttackPassesTurn(t *testing.T) {
	tests := []struct {
		name     string
		attacker PieceType
		from     string
		target   PieceType
		to       string
		wantHP   int
		wantDead bool
	}{
		{"non-lethal", Pawn, "d2", Rook, "d3", 7, false},
		{"lethal non-king", Queen, "d1", Pawn, "d4", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine(t)
			battleOn(t, eng, ModeAttack)
			put(t, eng.board, White, tt.attacker, tt.from)
			target := put(t, eng.board, Black, tt.target, tt.to)
			since := eng.LastEventSeq()

			res, err := eng.Attack(MustSquare(tt.from), MustSquare(tt.to))
			require.NoError(t, err)
			assert.Equal(t, tt.wantDead, res.Died)
			assert.False(t, res.KingSlain)

			active, mode, ok := eng.Phase().Battle()
			require.True(t, ok)
			assert.Equal(t, Black, active)
			assert.Equal(t, ModeMove, mode)

			var kinds []EventKind
			var granted []Event
			for _, ev := range eng.Events(since) {
				kinds = append(kinds, ev.Kind)
				if ev.Kind == EventCoinsGranted {
					granted = append(granted, ev)
				}
			}
			assert.Contains(t, kinds, EventAttacked)

			_, onBoard := eng.PieceAt(MustSquare(tt.to))
			if !tt.wantDead {
				assert.True(t, onBoard)
				assert.Equal(t, tt.wantHP, target.HP)
				assert.NotContains(t, kinds, EventPieceKilled)
				assert.Empty(t, granted)
				assert.Equal(t, 3, eng.Coins(White))
				return
			}
			assert.False(t, onBoard)
			assert.Contains(t, kinds, EventPieceKilled)
			require.Len(t, granted, 1)
			assert.Equal(t, White, *granted[0].Player)
			assert.Equal(t, 1, granted[0].Amount)
			assert.Equal(t, "kill reward", granted[0].Note)
			assert.Equal(t, 3+1, eng.Coins(White))
		})
	}
}
