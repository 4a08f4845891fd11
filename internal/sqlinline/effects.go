package sqlinline

const effectColumns = `id::text, name, category, coalesce(description, ''), coalesce(icon, ''), coalesce(color, ''),
       is_premium, is_active, coalesce(prompt_template, ''), default_intensity, coalesce(default_duration, ''),
       created_at, updated_at`

const QListEffects = `--sql 5eb0ba07-3c99-4242-abe0-12fd7467f246
select ` + effectColumns + `
from effects
where ($1::bool = false or is_active)
order by category, name;
`

const QSelectEffectByID = `--sql eaa45476-dc1c-43a5-9047-e4848feebef3
select ` + effectColumns + `
from effects
where id = $1::uuid;
`

const QSelectEffectByName = `--sql 865089b6-611e-4885-928e-537605f16b71
select ` + effectColumns + `
from effects
where name = $1::text and is_active
limit 1;
`

const QInsertEffect = `--sql ae93dc7e-f61f-49e5-8c2b-737b50b83297
insert into effects (id, name, category, description, icon, color, is_premium, is_active,
                     prompt_template, default_intensity, default_duration, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, nullif($4::text, ''), $5::text, $6::text, $7::bool, $8::bool,
        nullif($9::text, ''), $10::int, $11::text, now(), now())
returning created_at, updated_at;
`

const QUpdateEffect = `--sql 81880751-e475-44f7-80b3-6718d634b26d
update effects set
    name = $2::text,
    category = $3::text,
    description = nullif($4::text, ''),
    icon = $5::text,
    color = $6::text,
    is_premium = $7::bool,
    is_active = $8::bool,
    prompt_template = nullif($9::text, ''),
    default_intensity = $10::int,
    default_duration = $11::text,
    updated_at = now()
where id = $1::uuid
returning created_at, updated_at;
`

const QDeleteEffect = `--sql f5571fcd-f539-4e0c-ac2d-ff6b42bf1433
delete from effects
where id = $1::uuid;
`
