package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDeck is matched by every *InvalidDeckError.
	ErrInvalidDeck = errors.New("invalid deck")
	// ErrUnknownCard is returned when a card name is not in the database.
	ErrUnknownCard = errors.New("unknown card")
	// ErrOutOfCards is returned when a draw is required from an empty deck.
	ErrOutOfCards = errors.New("deck is empty")
	// ErrGameOver is returned by operations attempted after the game finished.
	ErrGameOver = errors.New("game is over")
)

// InvalidDeckError lists every rule a deck breaks.
type InvalidDeckError struct {
	Deck     string
	Problems []string
}

func (e *InvalidDeckError) Error() string {
	if e.Deck == "" {
		return fmt.Sprintf("invalid deck: %s", strings.Join(e.Problems, "; "))
	}
	return fmt.Sprintf("invalid deck %q: %s", e.Deck, strings.Join(e.Problems, "; "))
}

func (e *InvalidDeckError) Is(target error) bool {
	return target == ErrInvalidDeck
}
