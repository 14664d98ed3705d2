// Package server implements the authoritative side of the simulation.
//
// The server performs the following steps:
// 	1. A transport accepts a connection and calls Admit with the shared secret
// 	   presented in the handshake. A mismatch denies the connection; there is no retry.
// 	2. The approved client sends a body-less Connected frame. The transport calls Join,
// 	   which is served on the next server tick: the smallest free entity slot is
// 	   allocated and the entity is placed at its spawn point. When every slot is
// 	   taken Join fails with ErrCapacityExhausted and the connection must be refused.
// 	3. Every Input frame the client sends is queued with Submit.
// 	4. On each server tick (10 Hz by default) the queued inputs are drained without
// 	   blocking, validated and applied to the addressed entity, and the highest applied
// 	   sequence number per entity is recorded.
// 	5. A WorldState snapshot with every live entity is encoded once and pushed to the
// 	   outbound queue of every active session, in order.
// 	6. When the connection ends the transport calls Leave. The entity stays in the world.
//
// An instance of Server owns its entities exclusively: they are only touched from Tick.
// Transports interact with it through the inbox channel, the broadcast Hub and the
// session store, all of which are safe for concurrent use.
//
// Inputs for entities that do not exist, and inputs rejected by the Validator, are
// dropped without error. The server never rewinds: its state is the ground truth.
package server
