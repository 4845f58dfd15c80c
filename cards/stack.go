package cards

import "strings"

// Stack represents multiple cards
type Stack []Card

// NewStack creates a new stack from the given cards
func NewStack(cards ...Card) Stack {
	return cards
}

// StackFromStrings parses a stack from shorthand like "Ah", "Kd", "10s".
func StackFromStrings(shorthands ...string) (Stack, error) {
	stack := make(Stack, 0, len(shorthands))
	for _, s := range shorthands {
		card, err := CardFromString(s)
		if err != nil {
			return nil, err
		}
		stack = append(stack, card)
	}
	return stack, nil
}

// Clone returns an independent copy of the stack.
func (s Stack) Clone() Stack {
	if s == nil {
		return nil
	}
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

// Contains checks whether the stack holds the given card.
func (s Stack) Contains(card Card) bool {
	for _, c := range s {
		if c.Equals(card) {
			return true
		}
	}
	return false
}

// String renders the stack as space-separated shorthand.
func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
