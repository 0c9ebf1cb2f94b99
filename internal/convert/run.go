package convert

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/fxbricks/ldtrack/internal/catalog"
	"github.com/fxbricks/ldtrack/pkg/ldraw"
)

// ItemResult is the outcome of converting the three variants of an item
type ItemResult struct {
	Item     catalog.Item
	Variants []Result
	// Assembly is the assembly file written, empty when a variant failed
	Assembly string
	Err      error
}

// Failed reports whether any variant or the assembly failed
func (r ItemResult) Failed() bool {
	return r.Err != nil
}

// Run converts every variant of items with at most Workers at a time. A failed
// variant is reported in its result and does not stop the others. The assembly
// of an item is written once all three of its variants succeeded. The returned
// error is only set when ctx ended the run early.
func (c *Converter) Run(ctx context.Context, items []catalog.Item) ([]ItemResult, error) {
	results := make([]ItemResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.cfg.Workers, 1))

	for i, item := range items {
		variants := c.catalog.Variants(item)
		results[i] = ItemResult{Item: item, Variants: make([]Result, len(variants))}
		for j, v := range variants {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				results[i].Variants[j] = c.ConvertVariant(gctx, v)
				return nil
			})
		}
	}
	g.Wait()

	for i := range results {
		results[i].Err = c.finishItem(&results[i])
	}
	return results, ctx.Err()
}

// ConvertItem converts the variants of one item in order and writes its assembly
func (c *Converter) ConvertItem(ctx context.Context, item catalog.Item) ItemResult {
	res := ItemResult{Item: item}
	for _, v := range c.catalog.Variants(item) {
		res.Variants = append(res.Variants, c.ConvertVariant(ctx, v))
	}
	res.Err = c.finishItem(&res)
	return res
}

func (c *Converter) finishItem(res *ItemResult) error {
	var errs []error
	for _, v := range res.Variants {
		switch {
		case v.Variant.Item == "":
			errs = append(errs, fmt.Errorf("%s: not converted", res.Item.Name))
		case v.Err != nil:
			errs = append(errs, v.Err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	path := c.catalog.AssemblyPath(res.Item)
	refs := make([]ldraw.Ref, 0, len(res.Variants))
	for _, v := range res.Variants {
		refs = append(refs, ldraw.Ref{Colour: c.cfg.Assembly.For(v.Variant.Profile), File: v.Variant.SubFile()})
	}
	header := c.cfg.Meta.Header(path)
	err := writeAtomic(path, func(w io.Writer) error {
		return ldraw.WriteAssembly(w, header, refs)
	})
	if err != nil {
		return fmt.Errorf("failed to write assembly of %s: %w", res.Item.Name, err)
	}
	res.Assembly = path
	return nil
}
