// Package flex models the FLEX command set of the Keysight B1500
// semiconductor parameter analyzer: the grammar of each supported command
// and a message builder that renders grammar validated commands into the
// ASCII messages the instrument accepts.
//
// Key features:
//
//   - Immutable command descriptors carrying each command's argument slots,
//     response field layout and in-message conflict set.
//   - Typed argument domains (channel numbers, enumerated modes) validated
//     before anything is rendered, so out-of-domain values never reach the
//     instrument.
//   - A chainable MessageBuilder that accumulates commands in call order,
//     joins them with ";" and enforces the instrument's command buffer limit.
//
// Usage example:
//
//	ch, err := flex.NewChNr(3)
//	if err != nil {
//		return err
//	}
//	msg, err := flex.NewMessageBuilder().
//		FC(ch, 1e6).
//		ACV(ch, 0.03).
//		TC(ch, flex.RangingAuto).
//		Message()
//	if err != nil {
//		return err
//	}
package flex
