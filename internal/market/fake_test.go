package market

import "context"

type fakeSource struct{}

func (f *fakeSource) FetchRecentVolumeSeries(ctx context.Context, symbol string, intervalMinutes, count int) ([]float64, error) {
	return nil, nil
}

func (f *fakeSource) Fetch24hVolume(ctx context.Context, symbol string) (float64, error) {
	return 0, nil
}
