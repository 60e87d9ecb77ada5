package item

// TooltipOptions decides which components contribute tooltip lines.
type TooltipOptions struct {
	hideTooltip bool
	hidden      map[ComponentType]struct{}
}

// TooltipFrom derives options from the tooltip_display component. An item
// without one shows everything.
func TooltipFrom(d Description) TooltipOptions {
	spec, ok := d.TooltipDisplay()
	if !ok {
		return TooltipOptions{}
	}
	out := TooltipOptions{hideTooltip: spec.HideTooltip}
	if len(spec.Hidden) > 0 {
		out.hidden = make(map[ComponentType]struct{}, len(spec.Hidden))
		for _, t := range spec.Hidden {
			out.hidden[t] = struct{}{}
		}
	}
	return out
}

// Show reports whether t may add tooltip content.
func (o TooltipOptions) Show(t ComponentType) bool {
	if o.hideTooltip {
		return false
	}
	_, hidden := o.hidden[t]
	return !hidden
}

func (o TooltipOptions) HideTooltip() bool {
	return o.hideTooltip
}
