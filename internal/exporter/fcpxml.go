package exporter

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/virtuadex/videogrep/internal/types"
)

// Final Cut Pro timeline export. Times are rational seconds ("1234/1000s") so
// millisecond boundaries survive the trip into the editor.

type fcpXML struct {
	XMLName   xml.Name     `xml:"fcpxml"`
	Version   string       `xml:"version,attr"`
	Resources fcpResources `xml:"resources"`
	Library   fcpLibrary   `xml:"library"`
}

type fcpResources struct {
	Assets []fcpAsset `xml:"asset"`
}

type fcpAsset struct {
	ID       string      `xml:"id,attr"`
	Name     string      `xml:"name,attr"`
	HasVideo string      `xml:"hasVideo,attr"`
	HasAudio string      `xml:"hasAudio,attr"`
	MediaRep fcpMediaRep `xml:"media-rep"`
}

type fcpMediaRep struct {
	Kind string `xml:"kind,attr"`
	Src  string `xml:"src,attr"`
}

type fcpLibrary struct {
	Event fcpEvent `xml:"event"`
}

type fcpEvent struct {
	Name    string     `xml:"name,attr"`
	Project fcpProject `xml:"project"`
}

type fcpProject struct {
	Name     string      `xml:"name,attr"`
	Sequence fcpSequence `xml:"sequence"`
}

type fcpSequence struct {
	Spine fcpSpine `xml:"spine"`
}

type fcpSpine struct {
	Clips []fcpAssetClip `xml:"asset-clip"`
}

type fcpAssetClip struct {
	Ref      string `xml:"ref,attr"`
	Name     string `xml:"name,attr"`
	Offset   string `xml:"offset,attr"`
	Start    string `xml:"start,attr"`
	Duration string `xml:"duration,attr"`
}

func writeFCPXML(segments []types.Segment, outPath string) error {
	doc := fcpXML{Version: "1.9"}

	assetIDs := map[string]string{}
	for _, s := range segments {
		if _, ok := assetIDs[s.File]; ok {
			continue
		}
		id := fmt.Sprintf("r%d", len(assetIDs)+1)
		assetIDs[s.File] = id
		hasVideo := "0"
		if inputKind([]types.Segment{s}) == "video" {
			hasVideo = "1"
		}
		doc.Resources.Assets = append(doc.Resources.Assets, fcpAsset{
			ID:       id,
			Name:     filepath.Base(s.File),
			HasVideo: hasVideo,
			HasAudio: "1",
			MediaRep: fcpMediaRep{Kind: "original-media", Src: "file://" + mustAbs(s.File)},
		})
	}

	name := filepath.Base(outPath)
	spine := &doc.Library.Event.Project.Sequence.Spine
	elapsed := 0.0
	for _, s := range segments {
		dur := s.End - s.Start
		if dur < 0 {
			dur = 0
		}
		spine.Clips = append(spine.Clips, fcpAssetClip{
			Ref:      assetIDs[s.File],
			Name:     s.Content,
			Offset:   rationalSeconds(elapsed),
			Start:    rationalSeconds(s.Start),
			Duration: rationalSeconds(dur),
		})
		elapsed += dur
	}
	doc.Library.Event.Name = name
	doc.Library.Event.Project.Name = name

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	out := append([]byte(xml.Header), data...)
	return os.WriteFile(outPath, append(out, '\n'), 0o644)
}

func rationalSeconds(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d/1000s", int64(sec*1000+0.5))
}
