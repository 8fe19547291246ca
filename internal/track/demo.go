package track

import "github.com/SonBao99/gps-map-app/internal/geo"

// fallbackLoop is the built-in demo route: a closed loop around Hoan Kiem
// Lake in Hanoi, first point repeated to close the ring.
var fallbackLoop = []geo.Coordinate{
	{Lat: 21.03280, Lng: 105.85210},
	{Lat: 21.03255, Lng: 105.85290},
	{Lat: 21.03205, Lng: 105.85355},
	{Lat: 21.03140, Lng: 105.85400},
	{Lat: 21.03065, Lng: 105.85425},
	{Lat: 21.02985, Lng: 105.85430},
	{Lat: 21.02905, Lng: 105.85415},
	{Lat: 21.02830, Lng: 105.85380},
	{Lat: 21.02765, Lng: 105.85330},
	{Lat: 21.02715, Lng: 105.85265},
	{Lat: 21.02685, Lng: 105.85190},
	{Lat: 21.02680, Lng: 105.85110},
	{Lat: 21.02700, Lng: 105.85035},
	{Lat: 21.02745, Lng: 105.84970},
	{Lat: 21.02810, Lng: 105.84925},
	{Lat: 21.02885, Lng: 105.84900},
	{Lat: 21.02965, Lng: 105.84895},
	{Lat: 21.03045, Lng: 105.84915},
	{Lat: 21.03120, Lng: 105.84955},
	{Lat: 21.03185, Lng: 105.85010},
	{Lat: 21.03235, Lng: 105.85075},
	{Lat: 21.03265, Lng: 105.85140},
	{Lat: 21.03280, Lng: 105.85210},
}

// FallbackRoute returns a copy of the built-in 23-point loop used when a
// demo track is started without a usable reference route.
func FallbackRoute() []geo.Coordinate {
	return append([]geo.Coordinate(nil), fallbackLoop...)
}
