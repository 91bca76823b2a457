package portfolio

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/types"
)

// parseDecisions picks the one decision a signal may act on. With an open
// position only the matching exit counts. While flat only entries count, and
// a signal asking for both Long and Short is ambiguous.
func parseDecisions(decisions map[types.Decision]types.SignalStrength, position optional.Option[types.Position]) (types.Decision, types.SignalStrength, bool) {
	if position.IsSome() {
		pos := position.Unwrap()

		exit := pos.ExitDecision()
		if strength, ok := decisions[exit]; ok {
			return exit, strength, true
		}

		return "", 0, false
	}

	long, hasLong := decisions[types.DecisionLong]
	short, hasShort := decisions[types.DecisionShort]

	switch {
	case hasLong && !hasShort:
		return types.DecisionLong, long, true
	case hasShort && !hasLong:
		return types.DecisionShort, short, true
	default:
		return "", 0, false
	}
}
