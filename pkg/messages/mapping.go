package messages

// The wire format uses `event` as the discriminator key. The tables
// below map the paths used on the wire to the fields of the events so
// that no Go identifier has to mirror the wire names.

type inboundMapping struct {
	tag     string
	data    string
	message string
	origin  string
}

type outboundMapping struct {
	tag     string
	message string
}

var inboundFields = inboundMapping{
	tag:     "event",
	data:    "data",
	message: "msg",
	origin:  "id",
}

var outboundFields = outboundMapping{
	tag:     "event",
	message: "data.message",
}
