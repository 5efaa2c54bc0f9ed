package util

func Float64Ptr(value float64) *float64 {
	return &value
}
