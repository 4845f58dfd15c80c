package hands

import (
	"errors"
	"sort"

	"github.com/kurodenjiro/poker-x402-sub000/cards"
)

// Rank represents the category of a poker hand
type Rank int

const (
	HighCard Rank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable name for the rank.
func (r Rank) String() string {
	switch r {
	case HighCard:
		return "high card"
	case OnePair:
		return "pair"
	case TwoPair:
		return "two pair"
	case ThreeOfAKind:
		return "three of a kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case FourOfAKind:
		return "four of a kind"
	case StraightFlush:
		return "straight flush"
	case RoyalFlush:
		return "royal flush"
	default:
		return "unknown"
	}
}

// Each rank occupies a disjoint score band. Kickers are packed positionally
// below the band in base 15 (ranks run 2..14), so 15^5 comfortably fits.
const (
	rankBand       = int64(10_000_000_000)
	kickerBase     = int64(15)
	maxKickerSlots = 5
)

// ErrNotEnoughCards is returned when fewer than 5 cards are supplied.
var ErrNotEnoughCards = errors.New("hand evaluation requires at least 5 cards")

// Evaluation is the result of ranking a hand: the category, a single
// totally-ordered strength score, and the best 5 cards.
type Evaluation struct {
	Rank  Rank        `json:"rank"`
	Score int64       `json:"score"`
	Cards cards.Stack `json:"cards"`
}

// Compare returns -1, 0 or 1 as a is weaker than, equal to, or stronger than b.
// Equal scores are a true tie (split pot).
func Compare(a, b Evaluation) int {
	switch {
	case a.Score < b.Score:
		return -1
	case a.Score > b.Score:
		return 1
	default:
		return 0
	}
}

// Evaluate returns the best possible 5-card hand from the given cards.
// Typically called with 7 cards (2 hole + 5 community), enumerating all
// C(n,5) subsets (21 for n=7) and keeping the strongest.
func Evaluate(cardSet cards.Stack) (Evaluation, error) {
	n := len(cardSet)
	if n < 5 {
		return Evaluation{}, ErrNotEnoughCards
	}

	var best Evaluation
	found := false

	forEachCombination(n, 5, func(combo []int) {
		hand := make(cards.Stack, 5)
		for i, idx := range combo {
			hand[i] = cardSet[idx]
		}

		eval := evaluateFive(hand)
		if !found || eval.Score > best.Score {
			best = eval
			found = true
		}
	})

	return best, nil
}

// forEachCombination visits every k-subset of {0..n-1}.
func forEachCombination(n, k int, visit func([]int)) {
	combo := make([]int, 0, k)

	var recurse func(start int)
	recurse = func(start int) {
		if len(combo) == k {
			visit(combo)
			return
		}
		for i := start; i < n; i++ {
			combo = append(combo, i)
			recurse(i + 1)
			combo = combo[:len(combo)-1]
		}
	}

	recurse(0)
}

// evaluateFive ranks exactly 5 cards.
func evaluateFive(hand cards.Stack) Evaluation {
	sorted := sortByRankDesc(hand)

	flush := isFlush(sorted)
	straightHigh := straightHighCard(sorted)

	if flush && straightHigh == 14 {
		return scored(RoyalFlush, sorted, nil)
	}
	if flush && straightHigh > 0 {
		return scored(StraightFlush, sorted, []int{straightHigh})
	}

	counts := rankCounts(sorted)

	if quad, kicker := findFourOfAKind(counts); quad > 0 {
		return scored(FourOfAKind, sorted, []int{quad, kicker})
	}
	if trips, pair := findFullHouse(counts); trips > 0 {
		return scored(FullHouse, sorted, []int{trips, pair})
	}
	if flush {
		return scored(Flush, sorted, ranksOf(sorted))
	}
	if straightHigh > 0 {
		return scored(Straight, sorted, []int{straightHigh})
	}
	if trips, kickers := findThreeOfAKind(counts); trips > 0 {
		return scored(ThreeOfAKind, sorted, append([]int{trips}, kickers...))
	}
	if high, low, kicker := findTwoPair(counts); high > 0 {
		return scored(TwoPair, sorted, []int{high, low, kicker})
	}
	if pair, kickers := findOnePair(counts); pair > 0 {
		return scored(OnePair, sorted, append([]int{pair}, kickers...))
	}

	return scored(HighCard, sorted, ranksOf(sorted))
}

// scored builds the Evaluation for a category, encoding the kickers
// positionally below the category band.
func scored(rank Rank, hand cards.Stack, kickers []int) Evaluation {
	score := int64(rank) * rankBand

	multiplier := int64(1)
	for i := 1; i < maxKickerSlots; i++ {
		multiplier *= kickerBase
	}
	for _, k := range kickers {
		score += int64(k) * multiplier
		multiplier /= kickerBase
	}

	return Evaluation{Rank: rank, Score: score, Cards: hand}
}

func sortByRankDesc(hand cards.Stack) cards.Stack {
	sorted := hand.Clone()
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value.Rank() > sorted[j].Value.Rank()
	})
	return sorted
}

func ranksOf(hand cards.Stack) []int {
	ranks := make([]int, len(hand))
	for i, c := range hand {
		ranks[i] = c.Value.Rank()
	}
	return ranks
}

func isFlush(hand cards.Stack) bool {
	suit := hand[0].Suit
	for _, c := range hand[1:] {
		if c.Suit != suit {
			return false
		}
	}
	return true
}

// straightHighCard returns the high card of a straight, or 0 if the hand is
// not a straight. The wheel (A-2-3-4-5) is ranked by the five.
func straightHighCard(sortedDesc cards.Stack) int {
	ranks := ranksOf(sortedDesc)

	consecutive := true
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]-1 {
			consecutive = false
			break
		}
	}
	if consecutive {
		return ranks[0]
	}

	// Wheel: A,5,4,3,2 sorts as 14,5,4,3,2.
	if ranks[0] == 14 && ranks[1] == 5 && ranks[2] == 4 && ranks[3] == 3 && ranks[4] == 2 {
		return 5
	}

	return 0
}

func rankCounts(hand cards.Stack) map[int]int {
	counts := make(map[int]int, len(hand))
	for _, c := range hand {
		counts[c.Value.Rank()]++
	}
	return counts
}

func findFourOfAKind(counts map[int]int) (quad, kicker int) {
	for rank, count := range counts {
		switch count {
		case 4:
			quad = rank
		default:
			kicker = rank
		}
	}
	if quad == 0 {
		return 0, 0
	}
	return quad, kicker
}

func findFullHouse(counts map[int]int) (trips, pair int) {
	for rank, count := range counts {
		switch count {
		case 3:
			trips = rank
		case 2:
			pair = rank
		}
	}
	if trips == 0 || pair == 0 {
		return 0, 0
	}
	return trips, pair
}

func findThreeOfAKind(counts map[int]int) (trips int, kickers []int) {
	for rank, count := range counts {
		if count == 3 {
			trips = rank
		} else {
			kickers = append(kickers, rank)
		}
	}
	if trips == 0 {
		return 0, nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(kickers)))
	return trips, kickers
}

func findTwoPair(counts map[int]int) (high, low, kicker int) {
	var pairs []int
	for rank, count := range counts {
		if count == 2 {
			pairs = append(pairs, rank)
		} else {
			kicker = rank
		}
	}
	if len(pairs) != 2 {
		return 0, 0, 0
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pairs)))
	return pairs[0], pairs[1], kicker
}

func findOnePair(counts map[int]int) (pair int, kickers []int) {
	for rank, count := range counts {
		if count == 2 {
			pair = rank
		} else {
			kickers = append(kickers, rank)
		}
	}
	if pair == 0 {
		return 0, nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(kickers)))
	return pair, kickers
}
