package tui

type state int

const (
	searchState state = iota
	resolvingState
	watchingState
	commentState
	errorState
)
