package compile

import (
	"context"
	"strconv"

	"mkvplan/internal/identify"
	"mkvplan/internal/plan"
	"mkvplan/internal/resolve"
)

// Mux assembles the mkvmerge argument list (binary name excluded) from a
// plan and its resolution. mkvmerge is positionally sensitive, so the
// layout is fixed: global options, attachments, then each source's options
// and track selections followed by its filename, the track order, and the
// output file. Nothing is returned on error.
func Mux(p *plan.Plan, res resolve.Resolution, attachments []resolve.ResolvedAttachment) ([]string, error) {
	args, err := Options(p.GlobalOptions)
	if err != nil {
		return nil, err
	}

	for _, att := range attachments {
		if att.Name != "" {
			args = append(args, "--attachment-name", att.Name)
		}
		if att.MIMEType != "" {
			args = append(args, "--attachment-mime-type", att.MIMEType)
		}
		args = append(args, "--attach-file", att.Filename)
	}

	for i, src := range p.Sources {
		srcArgs, err := Options(res.SourceOptions[i])
		if err != nil {
			return nil, err
		}
		args = append(args, srcArgs...)

		for _, trk := range res.Tracks {
			if trk.Source != i {
				continue
			}
			trkArgs, err := TrackOptions(trk.Track, trk.Options)
			if err != nil {
				return nil, err
			}
			args = append(args, trkArgs...)
			args = append(args, "--tracks", strconv.Itoa(trk.Track))
		}

		args = append(args, src.Filename)
	}

	if order := res.TrackOrder(p.TrackOrder); order != "" {
		args = append(args, "--track-order", order)
	}
	args = append(args, "--output", p.OutputFile)
	return args, nil
}

// MuxPlan runs resolution and assembly in one step: tracks first, then
// attachments, then the argument list. The provider is queried only where
// resolution needs metadata.
func MuxPlan(ctx context.Context, p *plan.Plan, provider identify.Provider) ([]string, error) {
	res, err := resolve.Tracks(ctx, p, provider)
	if err != nil {
		return nil, err
	}
	attachments, err := resolve.Attachments(p.Attachments)
	if err != nil {
		return nil, err
	}
	return Mux(p, res, attachments)
}
