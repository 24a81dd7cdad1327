package app

import "context"

// haltIdle is how long each idle step of a halted device sleeps.
const haltIdle = 1000

// halt logs the fatal error and idles until ctx is done. On the device
// ctx never ends, so this is where a failed boot stays.
func (d *Device) halt(ctx context.Context, err error) error {
	log := d.log.With("boot")
	log.Printf("fatal: %v", err)
	log.Printf("halted")
	for {
		select {
		case <-ctx.Done():
			return err
		default:
		}
		d.clock.Sleep(haltIdle)
	}
}
