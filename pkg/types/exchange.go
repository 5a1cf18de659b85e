package types

type ExchangeName string

const (
	ExchangeDummy = ExchangeName("dummy") // static snapshot, no credentials needed
	ExchangeBnf   = ExchangeName("bnf")
)

type PriceSource string

const (
	PriceSourceLast = PriceSource("last") // last traded price
	PriceSourceMark = PriceSource("mark") // futures mark price
)
