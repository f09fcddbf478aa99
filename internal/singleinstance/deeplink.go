package singleinstance

import (
	"github.com/sccompanion/sc-companion/internal/events"
	"github.com/sccompanion/sc-companion/internal/ipc"
	"github.com/sccompanion/sc-companion/internal/logging"
)

// DeepLinkPayload returns argument index 1 of an activation, if present.
// The value is opaque; no URL validation happens here.
func DeepLinkPayload(act ipc.Activation) (string, bool) {
	if len(act.Args) < 2 {
		return "", false
	}
	return act.Args[1], true
}

// DeepLinkHandler builds the primary's activation callback. Every activation
// is published as an ActivationEvent; those carrying a payload additionally
// publish a DeepLinkEvent. The handler holds no state of its own and is safe
// to call concurrently.
func DeepLinkHandler(bus *events.EventBus, logger *logging.Logger) ipc.ActivationHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(act ipc.Activation) {
		bus.PublishActivation(act.Args, act.WorkingDirectory)

		payload, ok := DeepLinkPayload(act)
		if !ok {
			logger.Debug().Msg("Activation without payload; nothing to forward")
			return
		}
		logger.Info().Str("payload", payload).Msg("Deep link received from secondary launch")
		bus.PublishDeepLink(payload)
	}
}
