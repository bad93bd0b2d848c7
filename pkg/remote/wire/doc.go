// Package wire defines the byte-level protocol spoken by the remote.
package wire

// The remote talks over a half-duplex 4800 baud serial line. Either side
// asks for the floor with ASK and transmits only after the peer replies
// CONFIRM. The transmitted frame is fixed size:
//
//	START CMD PAYLOAD_LOW PAYLOAD_HIGH END
//
// and the receiver acknowledges it with ACK0 or ACK1, chosen by the lowest
// bit of CMD. There is no checksum; the alternating phase bit is the only
// means of telling a retransmission from a fresh frame.
