package simulation

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"travelcore/internal/core"
	"travelcore/pkg/domain"
)

// Totals counts what a pass produced. Checksum is a wrapping sum of per
// entity hashes, so it does not depend on the order households finish in.
type Totals struct {
	Households int
	Persons    int
	PersonDays int
	Tours      int
	Trips      int
	Checksum   uint64
}

// Merge adds o into t.
func (t *Totals) Merge(o Totals) {
	t.Households += o.Households
	t.Persons += o.Persons
	t.PersonDays += o.PersonDays
	t.Tours += o.Tours
	t.Trips += o.Trips
	t.Checksum += o.Checksum
}

// String renders the checksum the way run logs print it.
func (t Totals) String() string {
	return fmt.Sprintf("households=%d persons=%d days=%d tours=%d trips=%d checksum=%016x",
		t.Households, t.Persons, t.PersonDays, t.Tours, t.Trips, t.Checksum)
}

// AddHousehold walks hh's graph and counts it.
func (t *Totals) AddHousehold(hh core.HouseholdWrapper) {
	t.Households++
	var buf []byte
	for _, p := range hh.Persons() {
		t.Persons++
		for _, d := range p.PersonDays() {
			t.PersonDays++
			for _, tour := range d.Tours() {
				buf = t.addTour(buf, tour)
				for _, sub := range tour.Subtours() {
					buf = t.addTour(buf, sub)
				}
			}
		}
	}
}

func (t *Totals) addTour(buf []byte, tour core.TourWrapper) []byte {
	t.Tours++
	f := tour.Fields()
	buf = appendInts(buf[:0], 'T', f.ID, f.PersonDayID, int(f.DestinationPurpose), int(f.Mode),
		f.OriginParcelID, f.DestinationParcelID, f.ParkAndRideNodeID,
		f.OriginDepartureTime, f.DestinationArrivalTime, f.DestinationDepartureTime, f.OriginArrivalTime)
	t.Checksum += xxhash.Sum64(buf)
	for _, dir := range []domain.Direction{domain.DirectionOutbound, domain.DirectionReturn} {
		half, err := tour.HalfTour(dir)
		if err != nil {
			continue
		}
		for _, trip := range half.Trips() {
			t.Trips++
			tf := trip.Fields()
			buf = appendInts(buf[:0], 'R', tf.ID, tf.TourID, int(tf.HalfTour), tf.Sequence,
				tf.OriginParcelID, tf.DestinationParcelID, int(tf.DestinationPurpose), int(tf.Mode),
				tf.DepartureTime, tf.ArrivalTime)
			t.Checksum += xxhash.Sum64(buf)
		}
	}
	return buf
}

func appendInts(buf []byte, tag byte, values ...int) []byte {
	buf = append(buf, tag)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	return buf
}
