// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lifecycle implements the survey state machine.

Stored status moves only through explicit transitions:

	draft   -> active, deleted
	active  -> paused, closed, expired, deleted
	paused  -> active, closed, deleted
	expired -> closed, deleted
	closed  -> deleted

Expiry is also derived: EffectiveStatus reports an active survey whose end
date has passed as expired without writing anything. The periodic sweep in
package survey later stores that status.

All functions are pure and take the current time as an argument.
*/
package lifecycle
