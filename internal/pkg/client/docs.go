// Package client implements the client side of the state synchronization.
//
// The client performs the following steps on every update:
//  1. Drain the messages buffered by the Driver without blocking.
//  2. On Connected, remember the entity the client controls.
//  3. On WorldState, for every present slot:
//     a. create a local mirror for an entity seen for the first time;
//     b. for the own entity, take the authoritative position and, with
//        reconciliation enabled, replay the inputs the server has not processed yet;
//     c. for any other entity, snap to the position or, with interpolation
//        enabled, buffer it with the local receive time.
//  4. Stop if not connected yet.
//  5. Sample the input intent, scale it by the time since the last sample and,
//     unless it is zero, number it, send it, keep it in the pending ledger and
//     apply it locally when prediction is enabled.
//  6. With interpolation enabled, move every other entity to its position one
//     server frame in the past.
//  7. Hand the entities to the Renderer.
//
// Updates are throttled to the configured rate: Tick may be called as often as
// the host likes. An instance of Synchronizer is not safe for concurrent use.
//
// Prediction and reconciliation are independent switches here. Reconciling
// without prediction replays inputs against a mirror that never predicted
// them, so callers should couple the two (see the app cfg package).
package client
