package loot

// MergeCards folds repeated ids into counted drops, keeping first-seen order.
func MergeCards(ids []string) []CardDrop {
	drops := make([]CardDrop, 0, len(ids))
	for _, id := range ids {
		found := false
		for i := range drops {
			if drops[i].EquipmentID == id {
				drops[i].Count++
				found = true
				break
			}
		}
		if !found {
			drops = append(drops, CardDrop{EquipmentID: id, Count: 1})
		}
	}
	return drops
}

// Cards tracks equipment cards held per equipment id.
type Cards map[string]int

// Add credits every drop.
func (c Cards) Add(drops []CardDrop) {
	for _, d := range drops {
		if d.Count > 0 {
			c[d.EquipmentID] += d.Count
		}
	}
}

// Spend removes n cards of id. It reports false and changes nothing when
// fewer than n are held.
func (c Cards) Spend(id string, n int) bool {
	if n <= 0 {
		return true
	}
	if c[id] < n {
		return false
	}
	c[id] -= n
	return true
}

// Has reports whether at least n cards of id are held.
func (c Cards) Has(id string, n int) bool {
	return c[id] >= n
}
