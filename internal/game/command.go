// internal/game/command.go
//
// Abstract input commands. The input layer (here, the HTTP surface) maps
// physical keys onto these; the session never sees raw key codes. Dead-key
// and x-suffix circumflex entry both arrive as CmdToggleHint.

package game

// CommandKind enumerates every abstract command the session understands.
type CommandKind int

const (
	CmdNavigatePage CommandKind = iota
	CmdAdjustScore
	CmdToggleTeamOrTimer
	CmdToggleSuperDiveno
	CmdPushLetter
	CmdToggleHint
	CmdPopLetter
	CmdSubmitGuess
	CmdRejectGuess
	CmdAddHint
	CmdNewWord
	CmdDrawBall
	CmdNewGrid
)

// Direction is the argument of CmdNavigatePage.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
)

// Command is one abstract input command with its arguments. Fields not used
// by the Kind are ignored.
type Command struct {
	Kind CommandKind

	Dir    Direction // CmdNavigatePage
	Letter rune      // CmdPushLetter

	// CmdAdjustScore: Delta's sign picks up/down (magnitude comes from the
	// session config); zero is ignored. When SideSet is false the session
	// resolves the target team from the visible page.
	Delta   int
	Side    Side
	SideSet bool
}
