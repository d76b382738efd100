package storage

import "fmt"

// ExtractLiquid moves liquid from output into input, which receives through
// inputSide. An empty liquid means whatever output holds in its output
// compartment.
func ExtractLiquid(liq string, maxAmount float64, input, output LiquidStorage, inputSide Side) float64 {
	if input == nil || output == nil || !inputSide.ValidOrAny() {
		return 0
	}
	outputSide := inputSide.Opposite()
	if liq == "" {
		liq = output.GetLiquidStored(CompartmentOutput)
	}
	if liq == "" || !output.CanTransportLiquid(liq, outputSide) {
		return 0
	}
	return TransportLiquid(liq, maxAmount, output, input, outputSide)
}

// TransportLiquid moves up to maxAmount of liq out of output's outputSide
// into input. Whatever input refuses is handed back to output, so only the
// accepted amount leaves it. It returns the accepted amount.
func TransportLiquid(liq string, maxAmount float64, output, input LiquidStorage, outputSide Side) float64 {
	if input == nil || output == nil || liq == "" || maxAmount <= 0 || !outputSide.ValidOrAny() {
		return 0
	}
	if !input.CanReceiveLiquid(liq, outputSide.Opposite()) {
		return 0
	}
	withdrawn := output.GetLiquid(liq, maxAmount)
	if withdrawn <= 0 {
		return 0
	}
	accepted := input.AddLiquid(liq, withdrawn)
	if accepted > withdrawn {
		panic(fmt.Sprintf("storage: liquid %q accepted %v of %v withdrawn", liq, accepted, withdrawn))
	}
	output.GetLiquid(liq, accepted-withdrawn)
	return accepted
}
