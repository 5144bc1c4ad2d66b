package trim

// onTimeUpdate keeps live playback inside the selected window. Nothing is
// enforced until the duration is known, since the range is still {0, 0}.
func (c *Controller) onTimeUpdate() {
	if c.duration <= 0 {
		return
	}
	pos := c.host.CurrentPosition()
	if c.rng.Contains(pos) {
		return
	}
	c.log.Debug().
		Float64("position", pos).
		Float64("start", c.rng.Start).
		Float64("end", c.rng.End).
		Msg("playback left trim range, seeking to start")
	c.host.SeekTo(c.rng.Start)
}
