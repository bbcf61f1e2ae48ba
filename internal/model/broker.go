package model

// Broker is a supported broker name for the settings screen.
// Display only — there is no real brokerage connectivity.
type Broker string

const (
	BrokerZerodha  Broker = "Zerodha"
	BrokerUpstox   Broker = "Upstox"
	BrokerAngelOne Broker = "Angel One"
	BrokerDhan     Broker = "Dhan"
	BrokerFyers    Broker = "Fyers"
)

// Brokers returns the static broker directory.
func Brokers() []Broker {
	return []Broker{BrokerZerodha, BrokerUpstox, BrokerAngelOne, BrokerDhan, BrokerFyers}
}
