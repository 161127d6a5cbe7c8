package game

import (
	"github.com/peterkuimelis/rawdeal/internal/log"
)

// playableCards returns the hand indices of the cards the player can afford
// to play, together with the matching views. Titles missing from the catalog
// are never playable.
func (d *Duel) playableCards(player int) ([]int, []CardView) {
	gs := d.State
	p := gs.Players[player]

	var indices []int
	var views []CardView
	for i, title := range p.Hand {
		card, err := gs.Catalog.Card(title)
		if err != nil {
			continue
		}
		if !card.Playable(p.Fortitude) {
			continue
		}
		indices = append(indices, i)
		views = append(views, CardView{Title: title, Card: card})
	}
	return indices, views
}

// playCard asks the player for a playable card and resolves it. Cancelling,
// or answering out of range, leaves the state untouched.
func (d *Duel) playCard(player int) error {
	gs := d.State
	p := gs.Players[player]

	indices, views := d.playableCards(player)
	sel := Selection{
		Kind:      SelectPlay,
		Player:    player,
		Source:    p.Name(),
		Remaining: 1,
		Optional:  true,
		Prompt:    "Select a card to play",
	}
	choice, err := d.Controllers[player].ChooseCard(d.ctx, gs, sel, views)
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(indices) {
		return nil
	}

	card := views[choice].Card
	d.log(log.NewPlayAttemptEvent(gs.Turn, player, p.Name(), card.Info()))
	d.log(log.NewPlaySuccessEvent(gs.Turn, player, card.Title))

	if _, err := p.PlayFromHand(indices[choice]); err != nil {
		return err
	}

	d.resolvePlayedCard(card, player, gs.Opponent(player))
	return nil
}

// appliedDamage returns how many cards the defender overturns and how much
// fortitude the attacker gains. MANKIND takes one less damage, but the
// attacker's gain stays at the printed damage.
func appliedDamage(card *Card, defender *Player) (overturn, gain int) {
	raw := card.RawDamage()
	if raw <= 0 {
		return 0, 0
	}
	if defender.Name() == SuperstarMankind {
		overturn = raw - 1
		return overturn, overturn + 1
	}
	return raw, raw
}

// resolvePlayedCard applies a card that already sits in the attacker's ring area.
func (d *Duel) resolvePlayedCard(card *Card, attacker, defender int) {
	gs := d.State
	def := gs.Players[defender]

	overturn, gain := appliedDamage(card, def)
	gs.Players[attacker].Fortitude += gain
	if overturn <= 0 {
		return
	}

	d.log(log.NewDamageEvent(gs.Turn, gs.Phase.String(), defender, def.Name(), overturn))
	d.overturn(attacker, defender, overturn)
}

// overturn moves n cards from the top of the defender's arsenal to their
// ringside pile. If the arsenal runs out before all n are overturned the
// attacker wins and the rest is skipped. Reports whether the game ended.
func (d *Duel) overturn(attacker, defender, n int) bool {
	gs := d.State
	def := gs.Players[defender]

	for i := 0; i < n; i++ {
		title, ok := def.OverturnCard()
		if !ok {
			d.declareWinner(attacker, def.Name()+" has no cards left to overturn")
			return true
		}
		d.log(log.NewOverturnEvent(gs.Turn, gs.Phase.String(), defender, d.cardInfo(title), i+1, n))
	}
	return false
}

// cardInfo returns the printable face of a title, or a bare title when the
// catalog does not know it.
func (d *Duel) cardInfo(title string) log.CardInfo {
	card, err := d.State.Catalog.Card(title)
	if err != nil {
		return log.CardInfo{Title: title}
	}
	return card.Info()
}
