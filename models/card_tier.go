package models

import "strings"

// CardTier is a membership level sold through checkout. Prices are in USD.
type CardTier struct {
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Features []string `json:"features"`
}

var CardTiers = []CardTier{
	{Name: "Premium Card", Price: 100, Features: []string{"Digital loyalty card", "Basic rewards tracking", "Access to standard promotions", "Mobile app access"}},
	{Name: "Gold Card", Price: 250, Features: []string{"Digital loyalty card", "Enhanced rewards tracking", "Access to gold-tier promotions", "Mobile app access", "Premium rewards"}},
	{Name: "Platinum Card", Price: 500, Features: []string{"Digital loyalty card", "Advanced rewards tracking", "Access to platinum-tier promotions", "Mobile app access", "Premium rewards", "Priority support"}},
	{Name: "Diamond Card", Price: 1000, Features: []string{"Digital loyalty card", "Premium rewards tracking", "Access to diamond-tier promotions", "Mobile app access", "Premium rewards", "Priority support", "Exclusive events access"}},
	{Name: "Obsidian Card", Price: 2500, Features: []string{"Digital loyalty card", "Elite rewards tracking", "Access to obsidian-tier promotions", "Mobile app access", "Premium rewards", "VIP support", "Exclusive events access", "Concierge service"}},
}

func FindCardTier(name string) (CardTier, bool) {
	for _, t := range CardTiers {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return CardTier{}, false
}
