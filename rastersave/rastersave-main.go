package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/airbusgeo/cogger"
	"github.com/geomys/gorast"
	"github.com/geomys/gorast/gcs"
	"github.com/geomys/gorast/memdrv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func gsparse(file string) (bucket, object string) {
	if !strings.HasPrefix(file, "gs://") {
		return
	}
	file = file[5:]
	firstSlash := strings.Index(file, "/")
	if firstSlash == -1 {
		return
	}
	obj := strings.Trim(file[firstSlash:], "/")
	if obj == "" {
		return
	}
	bucket = file[0:firstSlash]
	object = obj
	return
}

// parseTile parses a z/x/y tile address.
func parseTile(s string) (gorast.TileCoordinate, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return gorast.TileCoordinate{}, fmt.Errorf("tile must be z/x/y, got %q", s)
	}
	z, err := strconv.Atoi(parts[0])
	if err != nil {
		return gorast.TileCoordinate{}, fmt.Errorf("invalid zoom %q", parts[0])
	}
	x, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return gorast.TileCoordinate{}, fmt.Errorf("invalid column %q", parts[1])
	}
	y, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return gorast.TileCoordinate{}, fmt.Errorf("invalid row %q", parts[2])
	}
	return gorast.TileCoordinate{Col: x, Row: y, Zoom: z}, nil
}

// parseBounds parses a west,south,east,north bounding box.
func parseBounds(s string) (gorast.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return gorast.Bounds{}, fmt.Errorf("bounds must be west,south,east,north, got %q", s)
	}
	var b gorast.Bounds
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return gorast.Bounds{}, fmt.Errorf("invalid bounds value %q", p)
		}
		b[i] = v
	}
	return b, nil
}

var (
	cfgFile  string
	outfile  string
	format   string
	tileArg  string
	bndsArg  string
	ndArg    string
	creation []string
	cogOut   bool
	tmpdir   string
)

func init() {
	saveCommand.Flags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.rastersave.yaml)")
	saveCommand.Flags().StringVarP(&outfile, "out", "o", "out.tif", "output name (local path, gs:// object, or - for stdout)")
	saveCommand.Flags().StringVarP(&format, "format", "f", "gtiff", "output format")
	saveCommand.Flags().StringVar(&tileArg, "tile", "", "z/x/y tile address used to georeference the output")
	saveCommand.Flags().StringVar(&bndsArg, "bounds", "", "west,south,east,north bounds used to georeference the output")
	saveCommand.Flags().StringVar(&ndArg, "nodata", "", "nodata sentinel to set on every band")
	saveCommand.Flags().StringArrayVar(&creation, "co", nil, "driver creation option KEY=VALUE")
	saveCommand.Flags().BoolVar(&cogOut, "cog", false, "rewrite the output tiff into a cloud optimized layout")
	saveCommand.Flags().StringVar(&tmpdir, "tmp", "", "directory to use for temp files")
	saveCommand.Flags().String("gs.blocksize", "512k", "gs:// block size")
	saveCommand.Flags().Int("gs.numblocks", 512, "number of gs:// blocks to cache")
	viper.BindPFlag("format", saveCommand.Flags().Lookup("format"))
	viper.BindPFlag("gs.blocksize", saveCommand.Flags().Lookup("gs.blocksize"))
	viper.BindPFlag("gs.numblocks", saveCommand.Flags().Lookup("gs.numblocks"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rastersave")
	}
	viper.SetEnvPrefix("rastersave")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func main() {
	cobra.OnInitialize(initConfig)
	if err := saveCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var saveCommand = &cobra.Command{
	Use:   "rastersave [flags] -- infile",
	Short: "re-encode a raster into a georeferenced output format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		infile := args[0]
		gorast.RegisterEngine(memdrv.New())

		ib, _ := gsparse(infile)
		ob, oo := gsparse(outfile)
		var stcl *storage.Client
		if ib != "" || ob != "" {
			var err error
			stcl, err = storage.NewClient(ctx)
			if err != nil {
				return fmt.Errorf("failed to create gcs storage client: %w", err)
			}
			err = gcs.RegisterHandler(ctx, gcs.Client(stcl),
				gcs.BlockSize(viper.GetString("gs.blocksize")),
				gcs.NumCachedBlocks(viper.GetInt("gs.numblocks")))
			if err != nil {
				return fmt.Errorf("gcs.registerhandler: %w", err)
			}
		}

		ds, err := gorast.Open(infile)
		if err != nil {
			return err
		}
		if ds == nil {
			return fmt.Errorf("%s: no driver recognized this resource", infile)
		}
		defer ds.Close()

		opts := []gorast.SaveOption{}
		if len(creation) > 0 {
			opts = append(opts, gorast.CreationOption(creation...))
		}
		if ndArg != "" {
			nd, err := strconv.ParseFloat(ndArg, 64)
			if err != nil {
				return fmt.Errorf("invalid nodata %q", ndArg)
			}
			opts = append(opts, gorast.NoData(nd))
		}
		if bndsArg != "" {
			b, err := parseBounds(bndsArg)
			if err != nil {
				return err
			}
			opts = append(opts, gorast.WithBounds(b))
		}

		fmtName := viper.GetString("format")
		save := func(w io.Writer) error {
			if tileArg != "" {
				tile, terr := parseTile(tileArg)
				if terr != nil {
					return terr
				}
				return gorast.SaveTileStream(ds, w, fmtName, tile, opts...)
			}
			return gorast.SaveStream(ds, w, fmtName, opts...)
		}

		out, err := openWriter(ctx, stcl, ob, oo)
		if err != nil {
			return err
		}
		if cogOut {
			err = saveCog(out, save)
		} else {
			err = save(out)
		}
		if err != nil {
			out.Close()
			return err
		}
		return out.Close()
	},
}

func openWriter(ctx context.Context, stcl *storage.Client, ob, oo string) (io.WriteCloser, error) {
	if outfile == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	if ob != "" {
		return stcl.Bucket(ob).Object(oo).NewWriter(ctx), nil
	}
	f, err := os.Create(outfile)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outfile, err)
	}
	return f, nil
}

// saveCog stages the encoded tiff in a temp file and rewrites it into a
// cloud optimized layout on the way to out. The cog rewrite parses tiff
// structure, so an engine whose GTiff driver emits anything else is
// rejected before the rewrite is attempted.
func saveCog(out io.Writer, save func(io.Writer) error) error {
	tmpf, err := os.CreateTemp(tmpdir, "rastersave-*.tif")
	if err != nil {
		return err
	}
	tmpname := tmpf.Name()
	defer os.Remove(tmpname)
	if err := save(tmpf); err != nil {
		tmpf.Close()
		return err
	}
	if _, err := tmpf.Seek(0, io.SeekStart); err != nil {
		tmpf.Close()
		return err
	}
	var magic [4]byte
	if _, err := io.ReadFull(tmpf, magic[:]); err != nil {
		tmpf.Close()
		return fmt.Errorf("read staged output: %w", err)
	}
	if !isTiffMagic(magic) {
		tmpf.Close()
		return fmt.Errorf("--cog: the registered engine does not produce tiff output")
	}
	if _, err := tmpf.Seek(0, io.SeekStart); err != nil {
		tmpf.Close()
		return err
	}
	if err := cogger.Rewrite(out, tmpf); err != nil {
		tmpf.Close()
		return fmt.Errorf("cogger.rewrite: %w", err)
	}
	return tmpf.Close()
}

func isTiffMagic(m [4]byte) bool {
	if m[0] == 'I' && m[1] == 'I' {
		return m[2] == 42 && m[3] == 0 || m[2] == 43 && m[3] == 0 // classic or bigtiff
	}
	if m[0] == 'M' && m[1] == 'M' {
		return m[2] == 0 && (m[3] == 42 || m[3] == 43)
	}
	return false
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
