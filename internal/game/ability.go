package game

import (
	"fmt"

	"github.com/peterkuimelis/rawdeal/internal/log"
)

// canUseAbility reports whether "Use Ability" may be offered to the player.
// Only the action-triggered abilities count, and only once per turn.
func (d *Duel) canUseAbility(player int) bool {
	gs := d.State
	if gs.AbilityUsed {
		return false
	}
	p := gs.Players[player]
	switch p.Ability {
	case AbilityUndertaker:
		return len(p.Hand) >= 2
	case AbilityJericho:
		return len(p.Hand) >= 1
	case AbilityStoneCold:
		return len(p.Arsenal) > 0
	default:
		return false
	}
}

// useAbility resolves the player's action ability and closes the gate for the turn.
func (d *Duel) useAbility(player int) error {
	gs := d.State
	var err error
	switch gs.Players[player].Ability {
	case AbilityUndertaker:
		err = d.resolveUndertaker(player)
	case AbilityJericho:
		err = d.resolveJericho(player)
	case AbilityStoneCold:
		err = d.resolveStoneCold(player)
	default:
		return fmt.Errorf("%s has no action ability", gs.Players[player].Name())
	}
	gs.AbilityUsed = true
	return err
}

// startOfTurnAbilities fires the turn player's automatic ability, if any.
// These do not touch the once-per-turn gate.
func (d *Duel) startOfTurnAbilities() error {
	gs := d.State
	tp := gs.TurnPlayer
	ability := gs.Players[tp].Ability
	if !ability.StartOfTurn() {
		return nil
	}
	switch ability {
	case AbilityRock:
		return d.resolveRock(tp)
	case AbilityKane:
		d.resolveKane(tp)
	}
	return nil
}

// chooseRequired asks for a mandatory selection. Answers out of range are
// asked again; once an ability has started it cannot be cancelled.
func (d *Duel) chooseRequired(sel Selection, candidates []CardView) (int, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%s: nothing to select", sel.Kind)
	}
	for {
		idx, err := d.Controllers[sel.Player].ChooseCard(d.ctx, d.State, sel, candidates)
		if err != nil {
			return 0, err
		}
		if idx >= 0 && idx < len(candidates) {
			return idx, nil
		}
		if err := d.ctx.Err(); err != nil {
			return 0, err
		}
	}
}

func (d *Duel) logAbility(player int) {
	gs := d.State
	p := gs.Players[player]
	d.log(log.NewAbilityEvent(gs.Turn, gs.Phase.String(), player, p.Name(), p.Superstar.SuperstarAbility))
}

// resolveRock: if the ringside pile is not empty, THE ROCK may put one card
// from it on the bottom of the arsenal.
func (d *Duel) resolveRock(player int) error {
	gs := d.State
	p := gs.Players[player]
	if len(p.Ringside) == 0 {
		return nil
	}

	yes, err := d.Controllers[player].ChooseYesNo(d.ctx, gs, fmt.Sprintf("Does %s want to use the ability?", p.Name()))
	if err != nil || !yes {
		return err
	}
	d.logAbility(player)

	sel := Selection{Kind: SelectRecover, Player: player, Source: p.Name(), Remaining: 1,
		Prompt: "Select a card to recover to the bottom of your arsenal"}
	idx, err := d.chooseRequired(sel, gs.Catalog.View(p.Ringside))
	if err != nil {
		return err
	}
	title, err := p.RecoverFromRingside(idx)
	if err != nil {
		return err
	}
	d.log(log.NewRecoverEvent(gs.Turn, gs.Phase.String(), player, title))
	return nil
}

// resolveKane deals 1 damage to the opponent. An empty arsenal here does not
// end the game; that is left to the end-of-turn check.
func (d *Duel) resolveKane(player int) {
	gs := d.State
	opp := gs.Opponent(player)
	def := gs.Players[opp]

	d.logAbility(player)
	d.log(log.NewDamageEvent(gs.Turn, gs.Phase.String(), opp, def.Name(), 1))

	title, ok := def.OverturnCard()
	if !ok {
		return
	}
	d.log(log.NewOverturnEvent(gs.Turn, gs.Phase.String(), opp, d.cardInfo(title), 1, 1))
}

// resolveUndertaker: discard two cards one at a time, then take one card from
// the ringside pile into the hand.
func (d *Duel) resolveUndertaker(player int) error {
	gs := d.State
	p := gs.Players[player]
	d.logAbility(player)

	for i := 0; i < 2; i++ {
		sel := Selection{Kind: SelectDiscard, Player: player, Source: p.Name(), Remaining: 2 - i,
			Prompt: "Select a card to discard"}
		if err := d.discard(player, sel); err != nil {
			return err
		}
	}

	sel := Selection{Kind: SelectPutInHand, Player: player, Source: p.Name(), Remaining: 1,
		Prompt: "Select a card to put in your hand"}
	idx, err := d.chooseRequired(sel, gs.Catalog.View(p.Ringside))
	if err != nil {
		return err
	}
	title, err := p.TakeFromRingside(idx)
	if err != nil {
		return err
	}
	d.log(log.NewAddToHandEvent(gs.Turn, gs.Phase.String(), player, title, "from ringside"))
	return nil
}

// resolveJericho: discard one card, then the opponent discards one card of
// their choice. An opponent with an empty hand has nothing to discard.
func (d *Duel) resolveJericho(player int) error {
	gs := d.State
	p := gs.Players[player]
	d.logAbility(player)

	sel := Selection{Kind: SelectDiscard, Player: player, Source: p.Name(), Remaining: 1,
		Prompt: "Select a card to discard"}
	if err := d.discard(player, sel); err != nil {
		return err
	}

	opp := gs.Opponent(player)
	if len(gs.Players[opp].Hand) == 0 {
		return nil
	}
	sel = Selection{Kind: SelectDiscard, Player: opp, Source: p.Name(), Remaining: 1,
		Prompt: "Select a card to discard"}
	return d.discard(opp, sel)
}

// resolveStoneCold: draw a card, then put one card from the hand on the
// bottom of the arsenal.
func (d *Duel) resolveStoneCold(player int) error {
	gs := d.State
	p := gs.Players[player]
	d.logAbility(player)

	if _, ok := p.DrawCard(); ok {
		d.log(log.NewDrawCardsEvent(gs.Turn, gs.Phase.String(), player, p.Name(), 1))
	}

	sel := Selection{Kind: SelectReturnToArsenal, Player: player, Source: p.Name(), Remaining: 1,
		Prompt: "Select a card to put on the bottom of your arsenal"}
	idx, err := d.chooseRequired(sel, gs.Catalog.View(p.Hand))
	if err != nil {
		return err
	}
	title, err := p.ReturnFromHand(idx)
	if err != nil {
		return err
	}
	d.log(log.NewReturnToArsenalEvent(gs.Turn, gs.Phase.String(), player, title))
	return nil
}

// discard asks sel.Player to discard one card from their own hand.
func (d *Duel) discard(player int, sel Selection) error {
	gs := d.State
	p := gs.Players[player]
	idx, err := d.chooseRequired(sel, gs.Catalog.View(p.Hand))
	if err != nil {
		return err
	}
	title, err := p.DiscardFromHand(idx)
	if err != nil {
		return err
	}
	d.log(log.NewDiscardEvent(gs.Turn, gs.Phase.String(), player, title))
	return nil
}
