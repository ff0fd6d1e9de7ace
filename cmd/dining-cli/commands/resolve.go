package commands

import (
	"fmt"
	"strconv"

	"dineassist-backend/internal/components/textutil"
	"dineassist-backend/internal/dining"
)

// below this Jaro-Winkler similarity a hall name is considered a typo of nothing
const minHallSimilarity = 0.75

// resolveHall accepts a hall id or (part of) its name.
func resolveHall(c dining.Catalog, arg string) (dining.DiningHall, error) {
	id, err := strconv.Atoi(arg)
	if err == nil {
		hall, ok := c.HallByID(id)
		if !ok {
			return dining.DiningHall{}, fmt.Errorf("%w: %d", dining.ErrUnknownHall, id)
		}
		return hall, nil
	}

	halls := c.ListHalls()
	for _, h := range halls {
		if textutil.NormalizeName(h.Name) == textutil.NormalizeName(arg) {
			return h, nil
		}
	}

	names := make([]string, len(halls))
	for i, h := range halls {
		names[i] = h.Name
	}
	idx, similarity := textutil.ClosestMatch(arg, names)
	if idx < 0 || similarity < minHallSimilarity {
		return dining.DiningHall{}, fmt.Errorf("%w: %q", dining.ErrUnknownHall, arg)
	}
	return halls[idx], nil
}
