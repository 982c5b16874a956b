package nn

// Relu is the hidden-layer activation: max(0, x). The output layer never
// applies it; decisions leave the net linear.
func Relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
